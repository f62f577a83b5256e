package controllers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/exceptions"
	"myserv-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type BookingController struct {
	Log            *zap.Logger
	BookingUsecase contracts.BookingUsecase
}

var (
	bookingControllerInstance *BookingController
	onceBookingController     sync.Once
)

func NewBookingController(logger *zap.Logger, bookingUsecase contracts.BookingUsecase) *BookingController {
	onceBookingController.Do(func() {
		instance := &BookingController{
			Log:            logger,
			BookingUsecase: bookingUsecase,
		}
		bookingControllerInstance = instance
	})
	return bookingControllerInstance
}

func (ctrl *BookingController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	actorID := r.Header.Get(constvars.HeaderXUserID)
	if actorID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrBookingForbidden(fmt.Errorf("missing %s header", constvars.HeaderXUserID)))
		return
	}

	request := new(requests.UpdateBookingStatusRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.BookingUsecase.UpdateStatus(ctx, bookingID, actorID, request)
	if err != nil {
		ctrl.Log.Error("Failed to update booking status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.String(constvars.LoggingBookingStatusKey, request.Status),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "booking_status_updated", requestID,
		zap.String(constvars.LoggingBookingIDKey, bookingID),
		zap.String(constvars.LoggingBookingStatusKey, request.Status),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, result.Message, result)
}

func (ctrl *BookingController) Schedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	bookingID := chi.URLParam(r, "bookingID")

	request := new(requests.ScheduleBookingRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.BookingUsecase.ScheduleFromQuote(ctx, bookingID, request)
	if err != nil {
		ctrl.Log.Error("Failed to schedule booking",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "booking_scheduled", requestID,
		zap.String(constvars.LoggingBookingIDKey, bookingID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.BookingScheduledSuccess, result)
}

func (ctrl *BookingController) SubmitReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	clientID := r.Header.Get(constvars.HeaderXUserID)
	if clientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrBookingForbidden(fmt.Errorf("missing %s header", constvars.HeaderXUserID)))
		return
	}

	request := new(requests.SubmitReviewRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	booking, err := ctrl.BookingUsecase.SubmitProviderReview(ctx, bookingID, clientID, request)
	if err != nil {
		ctrl.Log.Error("Failed to submit review",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "booking_reviewed", requestID,
		zap.String(constvars.LoggingBookingIDKey, bookingID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.BookingReviewedSuccess, booking)
}
