package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentApproved   PaymentStatus = "APPROVED"
	PaymentRejected   PaymentStatus = "REJECTED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

type PaymentPurpose string

const (
	PaymentPurposeBooking      PaymentPurpose = "booking"
	PaymentPurposeUnlock       PaymentPurpose = "unlock"
	PaymentPurposeSubscription PaymentPurpose = "subscription"
)

// ParsePaymentPurpose validates a purpose recovered from gateway metadata.
func ParsePaymentPurpose(raw string) (PaymentPurpose, bool) {
	switch PaymentPurpose(raw) {
	case PaymentPurposeBooking, PaymentPurposeUnlock, PaymentPurposeSubscription:
		return PaymentPurpose(raw), true
	}
	return "", false
}

type Payment struct {
	ID               string         `bson:"_id,omitempty" json:"id"`
	UserID           string         `bson:"userId" json:"user_id"`
	ServiceRequestID string         `bson:"serviceRequestId,omitempty" json:"service_request_id,omitempty"`
	Purpose          PaymentPurpose `bson:"purpose" json:"purpose"`
	PlanID           string         `bson:"planId,omitempty" json:"plan_id,omitempty"`
	Amount           float64        `bson:"amount" json:"amount"`
	Gateway          string         `bson:"gateway" json:"gateway"`
	GatewayPaymentID *string        `bson:"gatewayPaymentId,omitempty" json:"gateway_payment_id,omitempty"`
	Status           PaymentStatus  `bson:"status" json:"status"`
	SubscriptionID   string         `bson:"subscriptionId,omitempty" json:"subscription_id,omitempty"`
	CreatedAt        time.Time      `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time      `bson:"updatedAt" json:"updated_at"`
}
