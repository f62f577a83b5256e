package bookings

import (
	"context"
	"sync"
	"time"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

type slotAllocator struct {
	BookingRepository contracts.BookingRepository
	Log               *zap.Logger
}

var (
	slotAllocatorInstance contracts.SlotAllocator
	onceSlotAllocator     sync.Once
)

func NewSlotAllocator(bookingRepository contracts.BookingRepository, logger *zap.Logger) contracts.SlotAllocator {
	onceSlotAllocator.Do(func() {
		instance := &slotAllocator{
			BookingRepository: bookingRepository,
			Log:               logger,
		}
		slotAllocatorInstance = instance
	})
	return slotAllocatorInstance
}

// CheckConflict reports whether another active booking already occupies the
// provider's slot on the same calendar day with the exact same time string.
// The partial unique index on the collection backstops the race between this
// check and the subsequent write.
func (s *slotAllocator) CheckConflict(ctx context.Context, providerID string, date time.Time, timeOfDay, excludingBookingID string) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	count, err := s.BookingRepository.CountActiveAtSlot(ctx, providerID, dayStart, dayEnd, timeOfDay, excludingBookingID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		s.Log.Info("slot already occupied",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderIDKey, providerID),
			zap.String("scheduled_date", date.Format(constvars.BookingScheduledDateLayout)),
			zap.String("scheduled_time", timeOfDay),
		)
		return true, nil
	}
	return false, nil
}
