package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/exceptions"
	"myserv-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type WebhookController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase) *WebhookController {
	onceWebhookController.Do(func() {
		instance := &WebhookController{
			Log:            logger,
			PaymentUsecase: paymentUsecase,
		}
		webhookControllerInstance = instance
	})
	return webhookControllerInstance
}

// PaymentWebhook answers 200 for handled and ignored events alike. Only
// infrastructure failures surface as 5xx so the gateway redelivers.
func (ctrl *WebhookController) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "payment_webhook_received", requestID, "info",
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
	)

	event := new(requests.GatewayWebhookEvent)
	if err := json.NewDecoder(r.Body).Decode(event); err != nil {
		// A malformed envelope will never become valid on redelivery.
		ctrl.Log.Warn("Discarding unparseable webhook payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentWebhookProcessedCalled, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	err := ctrl.PaymentUsecase.HandleGatewayWebhook(ctx, event)
	if err != nil {
		ctrl.Log.Error("Failed to process payment webhook",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGatewayPaymentIDKey, event.Data.ID),
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

	utils.LogBusinessEvent(ctrl.Log, "payment_webhook_processed", requestID,
		zap.String(constvars.LoggingGatewayPaymentIDKey, event.Data.ID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentWebhookProcessedCalled, nil)
}
