package contracts

import (
	"context"
	"time"

	"myserv-service/internal/app/models"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/dto/responses"
)

type BookingUsecase interface {
	UpdateStatus(ctx context.Context, bookingID, actorID string, request *requests.UpdateBookingStatusRequest) (*responses.UpdatedBookingResponse, error)
	ScheduleFromQuote(ctx context.Context, bookingID string, request *requests.ScheduleBookingRequest) (*responses.UpdatedBookingResponse, error)
	SubmitProviderReview(ctx context.Context, bookingID, clientID string, request *requests.SubmitReviewRequest) (*models.Booking, error)
}

// UpdateStatusOptions carries the side writes applied together with a status
// change inside a single conditional update.
type UpdateStatusOptions struct {
	Notes       string
	ClearExpiry bool
}

type BookingRepository interface {
	FindByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// UpdateStatusIfCurrent performs a conditional update guarded by the
	// current status. It returns (nil, nil) when the precondition no longer
	// holds, so a concurrent loser can be told apart from storage failure.
	UpdateStatusIfCurrent(ctx context.Context, bookingID string, current, target models.BookingStatus, opts UpdateStatusOptions) (*models.Booking, error)
	// ScheduleQuote converts a QUOTE booking into an accepted SCHEDULING one,
	// guarded by the current status. Returns (nil, nil) when the guard fails.
	ScheduleQuote(ctx context.Context, bookingID string, current models.BookingStatus, date time.Time, timeOfDay string) (*models.Booking, error)
	// CountActiveAtSlot counts active bookings occupying the provider's slot
	// on the same calendar day with the exact time string, excluding one id.
	CountActiveAtSlot(ctx context.Context, providerID string, dayStart, dayEnd time.Time, timeOfDay, excludingBookingID string) (int64, error)
	// SetProviderReview attaches a review, guarded by COMPLETED status and
	// review absence. Returns (nil, nil) when the guard fails.
	SetProviderReview(ctx context.Context, bookingID string, review models.ProviderReview) (*models.Booking, error)
	// ExpireOverdueHolds moves PENDING bookings whose hold deadline elapsed
	// to EXPIRED and returns how many were moved.
	ExpireOverdueHolds(ctx context.Context, now time.Time) (int64, error)
}

// SlotAllocator decides whether a schedule assignment conflicts with existing
// active bookings for the same provider.
type SlotAllocator interface {
	CheckConflict(ctx context.Context, providerID string, date time.Time, timeOfDay, excludingBookingID string) (bool, error)
}

// AcceptanceGate authorizes a provider's attempt to accept a PENDING booking.
type AcceptanceGate interface {
	AuthorizeAcceptance(ctx context.Context, bookingID, actingProviderID string) error
}
