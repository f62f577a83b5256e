package contracts

import (
	"context"

	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/dto/responses"
)

// PaymentGatewayClient is the external payment provider, consumed as a black
// box. Fetch results are authoritative; webhook envelopes are not.
type PaymentGatewayClient interface {
	CreatePreference(ctx context.Context, request *requests.CreatePreferenceRequest) (*responses.PreferenceResponse, error)
	FetchPayment(ctx context.Context, gatewayPaymentID string) (*responses.GatewayPayment, error)
}
