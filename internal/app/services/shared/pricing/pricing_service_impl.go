package pricing

import (
	"context"
	"sync"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/contracts"
	"myserv-service/internal/app/models"
)

type pricingService struct {
	InternalConfig *config.InternalConfig
}

var (
	pricingServiceInstance contracts.PricingSettings
	oncePricingService     sync.Once
)

// NewPricingService serves marketplace prices straight from configuration.
// Price ownership may later move to a settings collection, which is why the
// contract takes a context and can fail.
func NewPricingService(internalConfig *config.InternalConfig) contracts.PricingSettings {
	oncePricingService.Do(func() {
		instance := &pricingService{
			InternalConfig: internalConfig,
		}
		pricingServiceInstance = instance
	})
	return pricingServiceInstance
}

func (s *pricingService) UnlockPrice(ctx context.Context) (float64, error) {
	return s.InternalConfig.Pricing.UnlockPrice, nil
}

func (s *pricingService) PlanPrice(ctx context.Context, planID string) (float64, error) {
	switch planID {
	case models.PlanProfessionalMonthly:
		return s.InternalConfig.Pricing.ProfessionalMonthlyPrice, nil
	default:
		return s.InternalConfig.Pricing.ProfessionalMonthlyPrice, nil
	}
}
