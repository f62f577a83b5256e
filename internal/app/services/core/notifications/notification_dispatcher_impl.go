package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type notificationDispatcher struct {
	EmailSenderService    contracts.EmailSender
	WhatsAppSenderService contracts.WhatsAppSender
	RetryQueueService     contracts.RetryQueue
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	notificationDispatcherInstance contracts.NotificationDispatcher
	onceNotificationDispatcher     sync.Once
)

func NewNotificationDispatcher(
	emailSender contracts.EmailSender,
	whatsAppSender contracts.WhatsAppSender,
	retryQueue contracts.RetryQueue,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.NotificationDispatcher {
	onceNotificationDispatcher.Do(func() {
		instance := &notificationDispatcher{
			EmailSenderService:    emailSender,
			WhatsAppSenderService: whatsAppSender,
			RetryQueueService:     retryQueue,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
		notificationDispatcherInstance = instance
	})
	return notificationDispatcherInstance
}

// DispatchBookingStatusChanged attempts each channel once and hands failures
// to the retry queue. It never reports an error back to the booking
// transition that triggered it.
func (d *notificationDispatcher) DispatchBookingStatusChanged(ctx context.Context, notification *requests.BookingStatusNotification) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	d.Log.Info("notificationDispatcher.DispatchBookingStatusChanged called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, notification.BookingID),
		zap.String(constvars.LoggingBookingStatusKey, notification.NewStatus),
	)

	notificationID := utils.GenerateNotificationID()

	if notification.Client.Email != "" {
		emailPayload := &requests.EmailPayload{
			To:      notification.Client.Email,
			Subject: fmt.Sprintf("Your booking for %s is now %s", notification.ServiceName, notification.NewStatus),
			Body: fmt.Sprintf(
				"Hello %s,\n\nYour booking with %s for %s changed status to %s.\n\nBooking reference: %s\n",
				notification.Client.Name,
				notification.Provider.Name,
				notification.ServiceName,
				notification.NewStatus,
				notification.BookingID,
			),
		}
		if err := d.EmailSenderService.SendEmail(ctx, emailPayload); err != nil {
			d.registerRetry(ctx, fmt.Sprintf("email-%s", notificationID), requests.RetryChannelEmail, emailPayload, err)
		}
	}

	if notification.Client.PhoneNumber != "" {
		whatsAppPayload := &requests.WhatsAppMessage{
			PhoneNumber: notification.Client.PhoneNumber,
			Message: fmt.Sprintf(
				"Hi %s, your booking with %s for %s is now %s.",
				notification.Client.Name,
				notification.Provider.Name,
				notification.ServiceName,
				notification.NewStatus,
			),
		}
		if err := d.WhatsAppSenderService.SendWhatsAppMessage(ctx, whatsAppPayload); err != nil {
			d.registerRetry(ctx, fmt.Sprintf("whatsapp-%s", notificationID), requests.RetryChannelWhatsApp, whatsAppPayload, err)
		}
	}
}

func (d *notificationDispatcher) registerRetry(ctx context.Context, operationID, channel string, payload any, cause error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	body, err := json.Marshal(payload)
	if err != nil {
		d.Log.Error("notificationDispatcher.registerRetry cannot marshal payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationIDKey, operationID),
			zap.Error(err),
		)
		return
	}

	initialDelay := time.Duration(d.InternalConfig.Retry.InitialDelayInSeconds) * time.Second
	operation := &requests.RetryOperation{
		ID:          operationID,
		Channel:     channel,
		Payload:     body,
		Retries:     0,
		NextRetryAt: time.Now().Add(initialDelay),
		LastError:   cause.Error(),
	}
	if err := d.RetryQueueService.Register(ctx, operation); err != nil {
		d.Log.Error("notificationDispatcher.registerRetry cannot register operation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationIDKey, operationID),
			zap.String(constvars.LoggingChannelKey, channel),
			zap.Error(err),
		)
		return
	}
	d.Log.Info("notification handed to retry queue",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationIDKey, operationID),
		zap.String(constvars.LoggingChannelKey, channel),
	)
}
