package contracts

import (
	"context"
	"time"

	"myserv-service/internal/app/models"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/dto/responses"
)

type PaymentUsecase interface {
	CreateIntent(ctx context.Context, request *requests.CreateIntentRequest) (*responses.CreateIntentResponse, error)
	HandleGatewayWebhook(ctx context.Context, event *requests.GatewayWebhookEvent) error
}

type PaymentRepository interface {
	Insert(ctx context.Context, payment *models.Payment) (string, error)
	FindByID(ctx context.Context, paymentID string) (*models.Payment, error)
	// FindByGatewayPaymentID is the exact, idempotent webhook match.
	FindByGatewayPaymentID(ctx context.Context, gateway, gatewayPaymentID string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, paymentID string, status models.PaymentStatus) (*models.Payment, error)
	// ClaimPendingIntent atomically binds gatewayPaymentID to the most recent
	// PENDING/PROCESSING row without a gateway id for the given correlation
	// key. Returns (nil, nil) when no candidate row exists.
	ClaimPendingIntent(ctx context.Context, serviceRequestID, userID, gateway, gatewayPaymentID string, status models.PaymentStatus) (*models.Payment, error)
	// FindLatestApprovedUnlock returns the newest APPROVED unlock payment for
	// the booking/provider pair, or (nil, nil).
	FindLatestApprovedUnlock(ctx context.Context, serviceRequestID, userID string) (*models.Payment, error)
	LinkSubscription(ctx context.Context, paymentID, subscriptionID string) error
}

type SubscriptionRepository interface {
	FindActiveByProvider(ctx context.Context, providerID string) (*models.Subscription, error)
	Insert(ctx context.Context, subscription *models.Subscription) (string, error)
	UpdateEndDate(ctx context.Context, subscriptionID string, endDate time.Time) error
	Cancel(ctx context.Context, subscriptionID string) error
}
