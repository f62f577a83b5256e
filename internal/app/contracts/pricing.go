package contracts

import (
	"context"
)

// PricingSettings is an external collaborator owning marketplace prices.
type PricingSettings interface {
	// UnlockPrice is the current one-off fee a provider pays to accept a
	// single booking.
	UnlockPrice(ctx context.Context) (float64, error)
	// PlanPrice is the recurring price of a subscription plan.
	PlanPrice(ctx context.Context, planID string) (float64, error)
}
