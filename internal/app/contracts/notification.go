package contracts

import (
	"context"

	"myserv-service/internal/pkg/dto/requests"
)

// PartyDirectory resolves user ids to the contact slice the dispatcher needs.
// Account data itself is owned by an external collaborator.
type PartyDirectory interface {
	GetNotificationParty(ctx context.Context, userID string) (*requests.NotificationParty, error)
}

type EmailSender interface {
	SendEmail(ctx context.Context, request *requests.EmailPayload) error
}

type WhatsAppSender interface {
	SendWhatsAppMessage(ctx context.Context, request *requests.WhatsAppMessage) error
}

// NotificationDispatcher fans a booking status change out to the delivery
// channels. Dispatch is best-effort: a failed channel is handed to the retry
// queue and never bubbles back to the state change that triggered it.
type NotificationDispatcher interface {
	DispatchBookingStatusChanged(ctx context.Context, notification *requests.BookingStatusNotification)
}

// RetryQueue accepts a unit of work for at-least-once redelivery with
// exponential backoff and a per-channel retry cap.
type RetryQueue interface {
	Register(ctx context.Context, operation *requests.RetryOperation) error
}
