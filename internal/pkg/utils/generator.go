package utils

import (
	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.NewString()
}

func GenerateNotificationID() string {
	return uuid.NewString()
}
