package bookings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type acceptanceGate struct {
	BookingRepository      contracts.BookingRepository
	SubscriptionRepository contracts.SubscriptionRepository
	PaymentRepository      contracts.PaymentRepository
	PricingService         contracts.PricingSettings
	Log                    *zap.Logger
}

var (
	acceptanceGateInstance contracts.AcceptanceGate
	onceAcceptanceGate     sync.Once
)

func NewAcceptanceGate(
	bookingRepository contracts.BookingRepository,
	subscriptionRepository contracts.SubscriptionRepository,
	paymentRepository contracts.PaymentRepository,
	pricingService contracts.PricingSettings,
	logger *zap.Logger,
) contracts.AcceptanceGate {
	onceAcceptanceGate.Do(func() {
		instance := &acceptanceGate{
			BookingRepository:      bookingRepository,
			SubscriptionRepository: subscriptionRepository,
			PaymentRepository:      paymentRepository,
			PricingService:         pricingService,
			Log:                    logger,
		}
		acceptanceGateInstance = instance
	})
	return acceptanceGateInstance
}

// AuthorizeAcceptance runs the ordered authorization chain for a provider
// accepting a PENDING booking: ownership, terminal status, active
// subscription, unlock payment. The first check that decides wins.
func (g *acceptanceGate) AuthorizeAcceptance(ctx context.Context, bookingID, actingProviderID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	g.Log.Info("acceptanceGate.AuthorizeAcceptance called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
		zap.String(constvars.LoggingProviderIDKey, actingProviderID),
	)

	booking, err := g.BookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return exceptions.ErrBookingNotFound(fmt.Errorf("booking %s not found", bookingID))
	}

	if booking.ProviderID != actingProviderID {
		return exceptions.ErrBookingForbidden(fmt.Errorf("provider %s does not own booking %s", actingProviderID, bookingID))
	}

	if booking.Status.IsTerminal() {
		return exceptions.ErrBookingTerminal(fmt.Errorf("booking %s is terminal", bookingID), string(booking.Status))
	}

	subscription, err := g.SubscriptionRepository.FindActiveByProvider(ctx, actingProviderID)
	if err != nil {
		return err
	}
	if subscription.GrantsUnlimitedAcceptance(time.Now()) {
		g.Log.Info("acceptance authorized by subscription",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.String(constvars.LoggingSubscriptionIDKey, subscription.ID),
		)
		return nil
	}

	unlockPayment, err := g.PaymentRepository.FindLatestApprovedUnlock(ctx, bookingID, actingProviderID)
	if err != nil {
		return err
	}
	if unlockPayment != nil {
		g.Log.Info("acceptance authorized by unlock payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.String(constvars.LoggingPaymentIDKey, unlockPayment.ID),
		)
		return nil
	}

	unlockPrice, err := g.PricingService.UnlockPrice(ctx)
	if err != nil {
		return err
	}
	return exceptions.ErrPaymentRequired(
		fmt.Errorf("provider %s has no subscription or unlock payment for booking %s", actingProviderID, bookingID),
		unlockPrice,
	)
}
