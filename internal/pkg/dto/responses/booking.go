package responses

import (
	"myserv-service/internal/app/models"
)

// UpdatedBookingResponse pairs the persisted booking with the human-readable
// status message callers surface to the end user.
type UpdatedBookingResponse struct {
	Booking *models.Booking `json:"booking"`
	Message string          `json:"message"`
}
