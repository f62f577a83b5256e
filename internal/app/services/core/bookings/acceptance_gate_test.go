package bookings

import (
	"context"
	"testing"
	"time"

	"myserv-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSubscriptionRepo struct {
	active *models.Subscription
}

func (r *fakeSubscriptionRepo) FindActiveByProvider(ctx context.Context, providerID string) (*models.Subscription, error) {
	return r.active, nil
}

func (r *fakeSubscriptionRepo) Insert(ctx context.Context, subscription *models.Subscription) (string, error) {
	return subscription.ID, nil
}

func (r *fakeSubscriptionRepo) UpdateEndDate(ctx context.Context, subscriptionID string, endDate time.Time) error {
	return nil
}

func (r *fakeSubscriptionRepo) Cancel(ctx context.Context, subscriptionID string) error {
	return nil
}

type fakePaymentRepo struct {
	unlock *models.Payment
}

func (r *fakePaymentRepo) Insert(ctx context.Context, payment *models.Payment) (string, error) {
	return payment.ID, nil
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) FindByGatewayPaymentID(ctx context.Context, gateway, gatewayPaymentID string) (*models.Payment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, paymentID string, status models.PaymentStatus) (*models.Payment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) ClaimPendingIntent(ctx context.Context, serviceRequestID, userID, gateway, gatewayPaymentID string, status models.PaymentStatus) (*models.Payment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) FindLatestApprovedUnlock(ctx context.Context, serviceRequestID, userID string) (*models.Payment, error) {
	return r.unlock, nil
}

func (r *fakePaymentRepo) LinkSubscription(ctx context.Context, paymentID, subscriptionID string) error {
	return nil
}

type fakePricing struct{}

func (fakePricing) UnlockPrice(ctx context.Context) (float64, error) {
	return 9.9, nil
}

func (fakePricing) PlanPrice(ctx context.Context, planID string) (float64, error) {
	return 49.9, nil
}

func newTestGate(repo *fakeBookingRepo, subscriptions *fakeSubscriptionRepo, paymentRepo *fakePaymentRepo) *acceptanceGate {
	return &acceptanceGate{
		BookingRepository:      repo,
		SubscriptionRepository: subscriptions,
		PaymentRepository:      paymentRepo,
		PricingService:         fakePricing{},
		Log:                    zap.NewNop(),
	}
}

func activeSubscription(planID string) *models.Subscription {
	endDate := time.Now().AddDate(0, 1, 0)
	return &models.Subscription{
		ID:                "sub-1",
		ServiceProviderID: "provider-1",
		PlanID:            planID,
		Status:            models.SubscriptionActive,
		StartDate:         time.Now().AddDate(0, -1, 0),
		EndDate:           &endDate,
	}
}

func TestAuthorizeAcceptance(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown booking", func(t *testing.T) {
		gate := newTestGate(newFakeBookingRepo(), &fakeSubscriptionRepo{}, &fakePaymentRepo{})
		err := gate.AuthorizeAcceptance(ctx, "missing", "provider-1")
		assert.Equal(t, 404, statusCode(t, err))
	})

	t.Run("foreign provider denied", func(t *testing.T) {
		gate := newTestGate(newFakeBookingRepo(pendingBooking("b1")), &fakeSubscriptionRepo{}, &fakePaymentRepo{})
		err := gate.AuthorizeAcceptance(ctx, "b1", "provider-2")
		assert.Equal(t, 403, statusCode(t, err))
	})

	t.Run("terminal booking denied", func(t *testing.T) {
		booking := pendingBooking("b1")
		booking.Status = models.BookingExpired
		gate := newTestGate(newFakeBookingRepo(booking), &fakeSubscriptionRepo{}, &fakePaymentRepo{})
		err := gate.AuthorizeAcceptance(ctx, "b1", "provider-1")
		assert.Equal(t, 409, statusCode(t, err))
	})

	t.Run("professional plan allows", func(t *testing.T) {
		subscriptions := &fakeSubscriptionRepo{active: activeSubscription(models.PlanProfessionalMonthly)}
		gate := newTestGate(newFakeBookingRepo(pendingBooking("b1")), subscriptions, &fakePaymentRepo{})
		assert.NoError(t, gate.AuthorizeAcceptance(ctx, "b1", "provider-1"))
	})

	t.Run("open ended professional plan allows", func(t *testing.T) {
		subscription := activeSubscription(models.PlanProfessionalMonthly)
		subscription.EndDate = nil
		gate := newTestGate(newFakeBookingRepo(pendingBooking("b1")), &fakeSubscriptionRepo{active: subscription}, &fakePaymentRepo{})
		assert.NoError(t, gate.AuthorizeAcceptance(ctx, "b1", "provider-1"))
	})

	t.Run("lapsed professional plan falls through", func(t *testing.T) {
		subscription := activeSubscription(models.PlanProfessionalMonthly)
		past := time.Now().Add(-time.Hour)
		subscription.EndDate = &past
		gate := newTestGate(newFakeBookingRepo(pendingBooking("b1")), &fakeSubscriptionRepo{active: subscription}, &fakePaymentRepo{})
		err := gate.AuthorizeAcceptance(ctx, "b1", "provider-1")
		assert.Equal(t, 402, statusCode(t, err))
	})

	t.Run("basic plan falls through", func(t *testing.T) {
		gate := newTestGate(newFakeBookingRepo(pendingBooking("b1")), &fakeSubscriptionRepo{active: activeSubscription(models.PlanBasic)}, &fakePaymentRepo{})
		err := gate.AuthorizeAcceptance(ctx, "b1", "provider-1")
		assert.Equal(t, 402, statusCode(t, err))
	})

	t.Run("approved unlock payment allows", func(t *testing.T) {
		paymentRepo := &fakePaymentRepo{unlock: &models.Payment{
			ID:               "pay-1",
			UserID:           "provider-1",
			ServiceRequestID: "b1",
			Purpose:          models.PaymentPurposeUnlock,
			Status:           models.PaymentApproved,
		}}
		gate := newTestGate(newFakeBookingRepo(pendingBooking("b1")), &fakeSubscriptionRepo{}, paymentRepo)
		assert.NoError(t, gate.AuthorizeAcceptance(ctx, "b1", "provider-1"))
	})

	t.Run("no subscription and no unlock means payment required", func(t *testing.T) {
		gate := newTestGate(newFakeBookingRepo(pendingBooking("b1")), &fakeSubscriptionRepo{}, &fakePaymentRepo{})
		err := gate.AuthorizeAcceptance(ctx, "b1", "provider-1")
		assert.Equal(t, 402, statusCode(t, err))
		assert.Contains(t, err.Error(), "9.9")
	})
}
