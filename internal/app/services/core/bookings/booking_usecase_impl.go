package bookings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/app/models"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/dto/responses"
	"myserv-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type bookingUsecase struct {
	BookingRepository      contracts.BookingRepository
	SlotAllocatorService   contracts.SlotAllocator
	AcceptanceGateService  contracts.AcceptanceGate
	NotificationDispatcher contracts.NotificationDispatcher
	PartyDirectoryService  contracts.PartyDirectory
	Log                    *zap.Logger
}

var (
	bookingUsecaseInstance contracts.BookingUsecase
	onceBookingUsecase     sync.Once
)

func NewBookingUsecase(
	bookingRepository contracts.BookingRepository,
	slotAllocator contracts.SlotAllocator,
	acceptanceGate contracts.AcceptanceGate,
	notificationDispatcher contracts.NotificationDispatcher,
	partyDirectory contracts.PartyDirectory,
	logger *zap.Logger,
) contracts.BookingUsecase {
	onceBookingUsecase.Do(func() {
		instance := &bookingUsecase{
			BookingRepository:      bookingRepository,
			SlotAllocatorService:   slotAllocator,
			AcceptanceGateService:  acceptanceGate,
			NotificationDispatcher: notificationDispatcher,
			PartyDirectoryService:  partyDirectory,
			Log:                    logger,
		}
		bookingUsecaseInstance = instance
	})
	return bookingUsecaseInstance
}

func (uc *bookingUsecase) UpdateStatus(ctx context.Context, bookingID, actorID string, request *requests.UpdateBookingStatusRequest) (*responses.UpdatedBookingResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.UpdateStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
		zap.String(constvars.LoggingBookingStatusKey, request.Status),
	)

	target, ok := models.ParseBookingStatus(request.Status)
	if !ok || target == models.BookingPending || target == models.BookingExpired {
		return nil, exceptions.ErrInvalidBookingStatus(fmt.Errorf("unsupported target status %q", request.Status), request.Status)
	}

	booking, err := uc.BookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, exceptions.ErrBookingNotFound(fmt.Errorf("booking %s not found", bookingID))
	}

	if booking.Status.IsTerminal() {
		return nil, exceptions.ErrBookingTerminal(fmt.Errorf("booking %s can no longer change", bookingID), string(booking.Status))
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, exceptions.ErrInvalidTransition(
			fmt.Errorf("booking %s cannot move to %s", bookingID, target),
			string(booking.Status), string(target),
		)
	}

	if err := uc.authorizeActor(ctx, booking, actorID, target); err != nil {
		return nil, err
	}

	opts := contracts.UpdateStatusOptions{
		Notes: request.Notes,
		// The hold is resolved once the provider answered.
		ClearExpiry: target == models.BookingAccepted || target == models.BookingRejected,
	}
	updated, err := uc.BookingRepository.UpdateStatusIfCurrent(ctx, bookingID, booking.Status, target, opts)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// A concurrent writer changed the status between the read and the
		// conditional update.
		return nil, exceptions.ErrInvalidTransition(
			fmt.Errorf("booking %s changed concurrently", bookingID),
			string(booking.Status), string(target),
		)
	}

	uc.dispatchStatusChanged(ctx, updated)

	return &responses.UpdatedBookingResponse{
		Booking: updated,
		Message: target.StatusMessage(),
	}, nil
}

func (uc *bookingUsecase) ScheduleFromQuote(ctx context.Context, bookingID string, request *requests.ScheduleBookingRequest) (*responses.UpdatedBookingResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.ScheduleFromQuote called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	date, err := time.Parse(constvars.BookingScheduledDateLayout, request.ScheduledDate)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	if _, err := time.Parse(constvars.BookingScheduledTimeLayout, request.ScheduledTime); err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}

	booking, err := uc.BookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, exceptions.ErrBookingNotFound(fmt.Errorf("booking %s not found", bookingID))
	}

	if booking.Status.IsTerminal() {
		return nil, exceptions.ErrBookingTerminal(fmt.Errorf("booking %s can no longer change", bookingID), string(booking.Status))
	}
	if booking.RequestType != models.BookingTypeQuote || booking.ScheduledDate != nil {
		return nil, exceptions.ErrBookingAlreadyScheduled(fmt.Errorf("booking %s already carries a schedule", bookingID))
	}

	conflict, err := uc.SlotAllocatorService.CheckConflict(ctx, booking.ProviderID, date, request.ScheduledTime, bookingID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, exceptions.ErrSlotUnavailable(
			fmt.Errorf("provider %s slot %s %s taken", booking.ProviderID, request.ScheduledDate, request.ScheduledTime),
		)
	}

	updated, err := uc.BookingRepository.ScheduleQuote(ctx, bookingID, booking.Status, date, request.ScheduledTime)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrInvalidTransition(
			fmt.Errorf("booking %s changed concurrently", bookingID),
			string(booking.Status), string(models.BookingAccepted),
		)
	}

	uc.dispatchStatusChanged(ctx, updated)

	return &responses.UpdatedBookingResponse{
		Booking: updated,
		Message: updated.Status.StatusMessage(),
	}, nil
}

func (uc *bookingUsecase) SubmitProviderReview(ctx context.Context, bookingID, clientID string, request *requests.SubmitReviewRequest) (*models.Booking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.SubmitProviderReview called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	booking, err := uc.BookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, exceptions.ErrBookingNotFound(fmt.Errorf("booking %s not found", bookingID))
	}
	if booking.ClientID != clientID {
		return nil, exceptions.ErrBookingForbidden(fmt.Errorf("client %s does not own booking %s", clientID, bookingID))
	}
	if booking.Status != models.BookingCompleted {
		return nil, exceptions.ErrReviewNotAllowed(fmt.Errorf("booking %s is %s", bookingID, booking.Status))
	}
	if booking.ProviderReview != nil {
		return nil, exceptions.ErrReviewAlreadySubmitted(fmt.Errorf("booking %s already reviewed", bookingID))
	}

	review := models.ProviderReview{
		Rating:    request.Rating,
		Comment:   request.Comment,
		CreatedAt: time.Now(),
	}
	updated, err := uc.BookingRepository.SetProviderReview(ctx, bookingID, review)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrReviewAlreadySubmitted(fmt.Errorf("booking %s reviewed concurrently", bookingID))
	}
	return updated, nil
}

// authorizeActor enforces who may drive each transition. Acceptance runs the
// full gate; rejection and completion belong to the provider; cancellation is
// open to either side of the booking.
func (uc *bookingUsecase) authorizeActor(ctx context.Context, booking *models.Booking, actorID string, target models.BookingStatus) error {
	switch target {
	case models.BookingAccepted:
		return uc.AcceptanceGateService.AuthorizeAcceptance(ctx, booking.ID, actorID)
	case models.BookingRejected, models.BookingCompleted:
		if booking.ProviderID != actorID {
			return exceptions.ErrBookingForbidden(fmt.Errorf("actor %s is not the provider of booking %s", actorID, booking.ID))
		}
	case models.BookingCancelled:
		if booking.ProviderID != actorID && booking.ClientID != actorID {
			return exceptions.ErrBookingForbidden(fmt.Errorf("actor %s is not a party of booking %s", actorID, booking.ID))
		}
	}
	return nil
}

// dispatchStatusChanged resolves both parties and fires the notification
// fan-out on a detached context so delivery never holds up or rolls back the
// transition.
func (uc *bookingUsecase) dispatchStatusChanged(ctx context.Context, booking *models.Booking) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	detached := context.WithoutCancel(ctx)

	go func() {
		client, err := uc.PartyDirectoryService.GetNotificationParty(detached, booking.ClientID)
		if err != nil || client == nil {
			uc.Log.Warn("cannot resolve client party for notification",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingBookingIDKey, booking.ID),
				zap.Error(err),
			)
			return
		}
		provider, err := uc.PartyDirectoryService.GetNotificationParty(detached, booking.ProviderID)
		if err != nil || provider == nil {
			uc.Log.Warn("cannot resolve provider party for notification",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingBookingIDKey, booking.ID),
				zap.Error(err),
			)
			return
		}

		uc.NotificationDispatcher.DispatchBookingStatusChanged(detached, &requests.BookingStatusNotification{
			BookingID:   booking.ID,
			NewStatus:   string(booking.Status),
			Client:      *client,
			Provider:    *provider,
			ServiceName: booking.ServiceID,
		})
	}()
}
