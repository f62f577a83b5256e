package bookings

import (
	"context"
	"testing"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLocker struct {
	acquired bool
	locks    int
	unlocks  int
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.locks++
	return l.acquired, "token", nil
}

func (l *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.unlocks++
	return nil
}

func TestExpiryWorkerRunOnce(t *testing.T) {
	ctx := context.Background()

	overdueBooking := func(id string) *models.Booking {
		b := pendingBooking(id)
		past := time.Now().Add(-time.Minute)
		b.ExpiresAt = &past
		return b
	}

	t.Run("only overdue pending holds expire", func(t *testing.T) {
		overdue := overdueBooking("b1")
		fresh := pendingBooking("b2")
		accepted := overdueBooking("b3")
		accepted.Status = models.BookingAccepted
		repo := newFakeBookingRepo(overdue, fresh, accepted)
		locker := &fakeLocker{acquired: true}
		worker := &ExpiryWorker{
			log:               zap.NewNop(),
			cfg:               &config.InternalConfig{},
			locker:            locker,
			bookingRepository: repo,
		}

		worker.runOnce(ctx)

		assert.Equal(t, int64(1), repo.expiredRows)
		assert.Equal(t, models.BookingExpired, repo.bookings["b1"].Status)
		assert.Nil(t, repo.bookings["b1"].ExpiresAt)
		assert.Equal(t, models.BookingPending, repo.bookings["b2"].Status)
		assert.Equal(t, models.BookingAccepted, repo.bookings["b3"].Status)
		assert.Equal(t, 1, locker.unlocks)
	})

	t.Run("sweep skipped when another instance leads", func(t *testing.T) {
		repo := newFakeBookingRepo(overdueBooking("b1"))
		locker := &fakeLocker{acquired: false}
		worker := &ExpiryWorker{
			log:               zap.NewNop(),
			cfg:               &config.InternalConfig{},
			locker:            locker,
			bookingRepository: repo,
		}

		worker.runOnce(ctx)

		assert.Equal(t, models.BookingPending, repo.bookings["b1"].Status)
		assert.Zero(t, locker.unlocks)
	})
}
