package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/app/models"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeBookingRepo struct {
	bookings    map[string]*models.Booking
	slotCount   int64
	slotErr     error
	expiredRows int64
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) UpdateStatusIfCurrent(ctx context.Context, bookingID string, current, target models.BookingStatus, opts contracts.UpdateStatusOptions) (*models.Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != current {
		return nil, nil
	}
	b.Status = target
	if opts.Notes != "" {
		b.Description = opts.Notes
	}
	if opts.ClearExpiry {
		b.ExpiresAt = nil
	}
	b.UpdatedAt = time.Now()
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) ScheduleQuote(ctx context.Context, bookingID string, current models.BookingStatus, date time.Time, timeOfDay string) (*models.Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != current || b.RequestType != models.BookingTypeQuote || b.ScheduledDate != nil {
		return nil, nil
	}
	b.RequestType = models.BookingTypeScheduling
	b.Status = models.BookingAccepted
	b.ScheduledDate = &date
	b.ScheduledTime = timeOfDay
	b.ExpiresAt = nil
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) CountActiveAtSlot(ctx context.Context, providerID string, dayStart, dayEnd time.Time, timeOfDay, excludingBookingID string) (int64, error) {
	return r.slotCount, r.slotErr
}

func (r *fakeBookingRepo) SetProviderReview(ctx context.Context, bookingID string, review models.ProviderReview) (*models.Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.BookingCompleted || b.ProviderReview != nil {
		return nil, nil
	}
	b.ProviderReview = &review
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) ExpireOverdueHolds(ctx context.Context, now time.Time) (int64, error) {
	var moved int64
	for _, b := range r.bookings {
		if b.Status == models.BookingPending && b.ExpiresAt != nil && !b.ExpiresAt.After(now) {
			b.Status = models.BookingExpired
			b.ExpiresAt = nil
			moved++
		}
	}
	r.expiredRows = moved
	return moved, nil
}

// staleReadRepo serves reads normally but loses every conditional update, as
// if another writer always got there first.
type staleReadRepo struct {
	*fakeBookingRepo
}

func (r *staleReadRepo) UpdateStatusIfCurrent(ctx context.Context, bookingID string, current, target models.BookingStatus, opts contracts.UpdateStatusOptions) (*models.Booking, error) {
	return nil, nil
}

type fakeGate struct {
	err   error
	calls int
}

func (g *fakeGate) AuthorizeAcceptance(ctx context.Context, bookingID, actingProviderID string) error {
	g.calls++
	return g.err
}

type fakeDispatcher struct {
	dispatched chan *requests.BookingStatusNotification
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{dispatched: make(chan *requests.BookingStatusNotification, 4)}
}

func (d *fakeDispatcher) DispatchBookingStatusChanged(ctx context.Context, notification *requests.BookingStatusNotification) {
	d.dispatched <- notification
}

type fakeDirectory struct{}

func (fakeDirectory) GetNotificationParty(ctx context.Context, userID string) (*requests.NotificationParty, error) {
	return &requests.NotificationParty{ID: userID, Name: userID, Email: userID + "@example.com"}, nil
}

func newTestUsecase(repo contracts.BookingRepository, gate contracts.AcceptanceGate, dispatcher contracts.NotificationDispatcher) *bookingUsecase {
	return &bookingUsecase{
		BookingRepository:      repo,
		SlotAllocatorService:   &slotAllocator{BookingRepository: repo, Log: zap.NewNop()},
		AcceptanceGateService:  gate,
		NotificationDispatcher: dispatcher,
		PartyDirectoryService:  fakeDirectory{},
		Log:                    zap.NewNop(),
	}
}

func pendingBooking(id string) *models.Booking {
	expires := time.Now().Add(24 * time.Hour)
	return &models.Booking{
		ID:          id,
		ClientID:    "client-1",
		ProviderID:  "provider-1",
		ServiceID:   "cleaning",
		RequestType: models.BookingTypeScheduling,
		Status:      models.BookingPending,
		ExpiresAt:   &expires,
	}
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) {
		t.Fatalf("expected CustomError, got %v", err)
	}
	return customErr.StatusCode
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("booking not found", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(), &fakeGate{}, newFakeDispatcher())
		_, err := uc.UpdateStatus(ctx, "missing", "provider-1", &requests.UpdateBookingStatusRequest{Status: "ACCEPTED"})
		assert.Equal(t, 404, statusCode(t, err))
	})

	t.Run("unsupported target status", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(pendingBooking("b1")), &fakeGate{}, newFakeDispatcher())
		_, err := uc.UpdateStatus(ctx, "b1", "provider-1", &requests.UpdateBookingStatusRequest{Status: "EXPIRED"})
		assert.Equal(t, 400, statusCode(t, err))
	})

	t.Run("terminal booking stays immutable", func(t *testing.T) {
		booking := pendingBooking("b1")
		booking.Status = models.BookingRejected
		uc := newTestUsecase(newFakeBookingRepo(booking), &fakeGate{}, newFakeDispatcher())
		_, err := uc.UpdateStatus(ctx, "b1", "provider-1", &requests.UpdateBookingStatusRequest{Status: "ACCEPTED"})
		assert.Equal(t, 409, statusCode(t, err))
	})

	t.Run("invalid transition", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(pendingBooking("b1")), &fakeGate{}, newFakeDispatcher())
		_, err := uc.UpdateStatus(ctx, "b1", "provider-1", &requests.UpdateBookingStatusRequest{Status: "COMPLETED"})
		assert.Equal(t, 409, statusCode(t, err))
	})

	t.Run("acceptance runs the gate", func(t *testing.T) {
		gate := &fakeGate{err: exceptions.ErrPaymentRequired(errors.New("no unlock"), 9.9)}
		uc := newTestUsecase(newFakeBookingRepo(pendingBooking("b1")), gate, newFakeDispatcher())
		_, err := uc.UpdateStatus(ctx, "b1", "provider-1", &requests.UpdateBookingStatusRequest{Status: "ACCEPTED"})
		assert.Equal(t, 402, statusCode(t, err))
		assert.Equal(t, 1, gate.calls)
	})

	t.Run("acceptance clears the hold deadline", func(t *testing.T) {
		dispatcher := newFakeDispatcher()
		uc := newTestUsecase(newFakeBookingRepo(pendingBooking("b1")), &fakeGate{}, dispatcher)
		result, err := uc.UpdateStatus(ctx, "b1", "provider-1", &requests.UpdateBookingStatusRequest{Status: "ACCEPTED"})
		assert.NoError(t, err)
		assert.Equal(t, models.BookingAccepted, result.Booking.Status)
		assert.Nil(t, result.Booking.ExpiresAt)
		assert.NotEmpty(t, result.Message)

		select {
		case notification := <-dispatcher.dispatched:
			assert.Equal(t, "b1", notification.BookingID)
			assert.Equal(t, string(models.BookingAccepted), notification.NewStatus)
		case <-time.After(time.Second):
			t.Fatal("expected a notification dispatch")
		}
	})

	t.Run("rejection is provider only", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(pendingBooking("b1")), &fakeGate{}, newFakeDispatcher())
		_, err := uc.UpdateStatus(ctx, "b1", "client-1", &requests.UpdateBookingStatusRequest{Status: "REJECTED"})
		assert.Equal(t, 403, statusCode(t, err))
	})

	t.Run("cancellation allowed to either party", func(t *testing.T) {
		booking := pendingBooking("b1")
		booking.Status = models.BookingAccepted
		uc := newTestUsecase(newFakeBookingRepo(booking), &fakeGate{}, newFakeDispatcher())
		result, err := uc.UpdateStatus(ctx, "b1", "client-1", &requests.UpdateBookingStatusRequest{Status: "CANCELLED"})
		assert.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, result.Booking.Status)
	})

	t.Run("cancellation denied to strangers", func(t *testing.T) {
		booking := pendingBooking("b1")
		booking.Status = models.BookingAccepted
		uc := newTestUsecase(newFakeBookingRepo(booking), &fakeGate{}, newFakeDispatcher())
		_, err := uc.UpdateStatus(ctx, "b1", "somebody-else", &requests.UpdateBookingStatusRequest{Status: "CANCELLED"})
		assert.Equal(t, 403, statusCode(t, err))
	})

	t.Run("concurrent loser gets a conflict", func(t *testing.T) {
		repo := &staleReadRepo{fakeBookingRepo: newFakeBookingRepo(pendingBooking("b1"))}
		uc := newTestUsecase(repo, &fakeGate{}, newFakeDispatcher())

		// Another writer moves the booking between the read and the
		// conditional update, so the precondition no longer holds.
		_, err := uc.UpdateStatus(ctx, "b1", "provider-1", &requests.UpdateBookingStatusRequest{Status: "REJECTED"})
		assert.Equal(t, 409, statusCode(t, err))
	})

	t.Run("notes land on the booking", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(pendingBooking("b1")), &fakeGate{}, newFakeDispatcher())
		result, err := uc.UpdateStatus(ctx, "b1", "provider-1", &requests.UpdateBookingStatusRequest{Status: "REJECTED", Notes: "fully booked"})
		assert.NoError(t, err)
		assert.Equal(t, "fully booked", result.Booking.Description)
		assert.Nil(t, result.Booking.ExpiresAt)
	})
}

func TestScheduleFromQuote(t *testing.T) {
	ctx := context.Background()

	quote := func(id string) *models.Booking {
		return &models.Booking{
			ID:          id,
			ClientID:    "client-1",
			ProviderID:  "provider-1",
			ServiceID:   "plumbing",
			RequestType: models.BookingTypeQuote,
			Status:      models.BookingPending,
		}
	}
	request := &requests.ScheduleBookingRequest{ScheduledDate: "2026-09-15", ScheduledTime: "14:30"}

	t.Run("unparseable date", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(quote("b1")), &fakeGate{}, newFakeDispatcher())
		_, err := uc.ScheduleFromQuote(ctx, "b1", &requests.ScheduleBookingRequest{ScheduledDate: "15/09/2026", ScheduledTime: "14:30"})
		assert.Equal(t, 400, statusCode(t, err))
	})

	t.Run("booking not found", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(), &fakeGate{}, newFakeDispatcher())
		_, err := uc.ScheduleFromQuote(ctx, "missing", request)
		assert.Equal(t, 404, statusCode(t, err))
	})

	t.Run("terminal quote", func(t *testing.T) {
		booking := quote("b1")
		booking.Status = models.BookingCancelled
		uc := newTestUsecase(newFakeBookingRepo(booking), &fakeGate{}, newFakeDispatcher())
		_, err := uc.ScheduleFromQuote(ctx, "b1", request)
		assert.Equal(t, 409, statusCode(t, err))
	})

	t.Run("silent reschedule refused", func(t *testing.T) {
		booking := quote("b1")
		scheduled := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		booking.ScheduledDate = &scheduled
		uc := newTestUsecase(newFakeBookingRepo(booking), &fakeGate{}, newFakeDispatcher())
		_, err := uc.ScheduleFromQuote(ctx, "b1", request)
		assert.Equal(t, 400, statusCode(t, err))
	})

	t.Run("occupied slot conflicts", func(t *testing.T) {
		repo := newFakeBookingRepo(quote("b1"))
		repo.slotCount = 1
		uc := newTestUsecase(repo, &fakeGate{}, newFakeDispatcher())
		_, err := uc.ScheduleFromQuote(ctx, "b1", request)
		assert.Equal(t, 409, statusCode(t, err))
	})

	t.Run("quote becomes a scheduled acceptance", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(quote("b1")), &fakeGate{}, newFakeDispatcher())
		result, err := uc.ScheduleFromQuote(ctx, "b1", request)
		assert.NoError(t, err)
		assert.Equal(t, models.BookingTypeScheduling, result.Booking.RequestType)
		assert.Equal(t, models.BookingAccepted, result.Booking.Status)
		assert.Equal(t, "14:30", result.Booking.ScheduledTime)
		assert.NotNil(t, result.Booking.ScheduledDate)
	})
}

func TestSubmitProviderReview(t *testing.T) {
	ctx := context.Background()

	completed := func(id string) *models.Booking {
		return &models.Booking{
			ID:          id,
			ClientID:    "client-1",
			ProviderID:  "provider-1",
			RequestType: models.BookingTypeScheduling,
			Status:      models.BookingCompleted,
		}
	}
	request := &requests.SubmitReviewRequest{Rating: 5, Comment: "great work"}

	t.Run("only the client may review", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(completed("b1")), &fakeGate{}, newFakeDispatcher())
		_, err := uc.SubmitProviderReview(ctx, "b1", "provider-1", request)
		assert.Equal(t, 403, statusCode(t, err))
	})

	t.Run("only completed bookings take reviews", func(t *testing.T) {
		booking := completed("b1")
		booking.Status = models.BookingAccepted
		uc := newTestUsecase(newFakeBookingRepo(booking), &fakeGate{}, newFakeDispatcher())
		_, err := uc.SubmitProviderReview(ctx, "b1", "client-1", request)
		assert.Equal(t, 409, statusCode(t, err))
	})

	t.Run("one review per booking", func(t *testing.T) {
		booking := completed("b1")
		booking.ProviderReview = &models.ProviderReview{Rating: 4, CreatedAt: time.Now()}
		uc := newTestUsecase(newFakeBookingRepo(booking), &fakeGate{}, newFakeDispatcher())
		_, err := uc.SubmitProviderReview(ctx, "b1", "client-1", request)
		assert.Equal(t, 409, statusCode(t, err))
	})

	t.Run("review is attached", func(t *testing.T) {
		uc := newTestUsecase(newFakeBookingRepo(completed("b1")), &fakeGate{}, newFakeDispatcher())
		booking, err := uc.SubmitProviderReview(ctx, "b1", "client-1", request)
		assert.NoError(t, err)
		assert.NotNil(t, booking.ProviderReview)
		assert.Equal(t, 5, booking.ProviderReview.Rating)
	})
}
