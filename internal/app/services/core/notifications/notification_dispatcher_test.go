package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/pkg/dto/requests"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubEmailSender struct {
	sent []requests.EmailPayload
	err  error
}

func (s *stubEmailSender) SendEmail(ctx context.Context, payload *requests.EmailPayload) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, *payload)
	return nil
}

type stubWhatsAppSender struct {
	sent []requests.WhatsAppMessage
	err  error
}

func (s *stubWhatsAppSender) SendWhatsAppMessage(ctx context.Context, message *requests.WhatsAppMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, *message)
	return nil
}

type stubRetryQueue struct {
	registered []requests.RetryOperation
}

func (q *stubRetryQueue) Register(ctx context.Context, operation *requests.RetryOperation) error {
	q.registered = append(q.registered, *operation)
	return nil
}

func newTestDispatcher(email *stubEmailSender, whatsApp *stubWhatsAppSender, queue *stubRetryQueue) *notificationDispatcher {
	return &notificationDispatcher{
		EmailSenderService:    email,
		WhatsAppSenderService: whatsApp,
		RetryQueueService:     queue,
		InternalConfig: &config.InternalConfig{
			Retry: config.AppRetry{InitialDelayInSeconds: 5},
		},
		Log: zap.NewNop(),
	}
}

func acceptedNotification() *requests.BookingStatusNotification {
	return &requests.BookingStatusNotification{
		BookingID: "booking-1",
		NewStatus: "ACCEPTED",
		Client: requests.NotificationParty{
			ID:          "client-1",
			Name:        "Ana",
			Email:       "ana@example.com",
			PhoneNumber: "+5511999999999",
		},
		Provider: requests.NotificationParty{
			ID:   "provider-1",
			Name: "Dr. Silva",
		},
		ServiceName: "therapy-session",
	}
}

func TestDispatchBookingStatusChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("both channels delivered first try", func(t *testing.T) {
		email := &stubEmailSender{}
		whatsApp := &stubWhatsAppSender{}
		queue := &stubRetryQueue{}
		dispatcher := newTestDispatcher(email, whatsApp, queue)

		dispatcher.DispatchBookingStatusChanged(ctx, acceptedNotification())

		assert.Empty(t, queue.registered)
		if assert.Len(t, email.sent, 1) {
			assert.Equal(t, "ana@example.com", email.sent[0].To)
			assert.Equal(t, "Your booking for therapy-session is now ACCEPTED", email.sent[0].Subject)
			assert.Contains(t, email.sent[0].Body, "Dr. Silva")
			assert.Contains(t, email.sent[0].Body, "booking-1")
		}
		if assert.Len(t, whatsApp.sent, 1) {
			assert.Equal(t, "+5511999999999", whatsApp.sent[0].PhoneNumber)
			assert.Contains(t, whatsApp.sent[0].Message, "ACCEPTED")
		}
	})

	t.Run("email failure registers one retry operation", func(t *testing.T) {
		email := &stubEmailSender{err: errors.New("smtp down")}
		whatsApp := &stubWhatsAppSender{}
		queue := &stubRetryQueue{}
		dispatcher := newTestDispatcher(email, whatsApp, queue)

		before := time.Now()
		dispatcher.DispatchBookingStatusChanged(ctx, acceptedNotification())

		assert.Len(t, whatsApp.sent, 1)
		if assert.Len(t, queue.registered, 1) {
			operation := queue.registered[0]
			assert.True(t, strings.HasPrefix(operation.ID, "email-"))
			assert.Equal(t, requests.RetryChannelEmail, operation.Channel)
			assert.Zero(t, operation.Retries)
			assert.Equal(t, "smtp down", operation.LastError)
			assert.WithinDuration(t, before.Add(5*time.Second), operation.NextRetryAt, time.Second)

			var payload requests.EmailPayload
			assert.NoError(t, json.Unmarshal(operation.Payload, &payload))
			assert.Equal(t, "ana@example.com", payload.To)
		}
	})

	t.Run("both failures share the notification id", func(t *testing.T) {
		email := &stubEmailSender{err: errors.New("smtp down")}
		whatsApp := &stubWhatsAppSender{err: errors.New("provider 500")}
		queue := &stubRetryQueue{}
		dispatcher := newTestDispatcher(email, whatsApp, queue)

		dispatcher.DispatchBookingStatusChanged(ctx, acceptedNotification())

		if assert.Len(t, queue.registered, 2) {
			emailID := strings.TrimPrefix(queue.registered[0].ID, "email-")
			whatsAppID := strings.TrimPrefix(queue.registered[1].ID, "whatsapp-")
			assert.Equal(t, emailID, whatsAppID)
			assert.Equal(t, requests.RetryChannelWhatsApp, queue.registered[1].Channel)
		}
	})

	t.Run("missing contact data skips the channel", func(t *testing.T) {
		email := &stubEmailSender{}
		whatsApp := &stubWhatsAppSender{}
		queue := &stubRetryQueue{}
		dispatcher := newTestDispatcher(email, whatsApp, queue)

		notification := acceptedNotification()
		notification.Client.Email = ""
		dispatcher.DispatchBookingStatusChanged(ctx, notification)

		assert.Empty(t, email.sent)
		assert.Len(t, whatsApp.sent, 1)
		assert.Empty(t, queue.registered)
	})
}
