package retryqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/pkg/dto/requests"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type memQueue struct {
	items    []QueuedItem
	dead     []requests.RetryOperation
	acked    []uint64
	nextTag  uint64
	fetchErr error
}

func (q *memQueue) FetchN(ctx context.Context, max int) ([]QueuedItem, error) {
	if q.fetchErr != nil {
		return nil, q.fetchErr
	}
	if len(q.items) <= max {
		out := q.items
		q.items = nil
		return out, nil
	}
	out := q.items[:max]
	q.items = q.items[max:]
	return out, nil
}

func (q *memQueue) Reenqueue(ctx context.Context, operation *requests.RetryOperation) error {
	q.nextTag++
	q.items = append(q.items, QueuedItem{DeliveryTag: q.nextTag, Operation: *operation})
	return nil
}

func (q *memQueue) EnqueueToDeadQueue(ctx context.Context, operation *requests.RetryOperation) error {
	q.dead = append(q.dead, *operation)
	return nil
}

func (q *memQueue) AckMessage(ctx context.Context, deliveryTag uint64) error {
	q.acked = append(q.acked, deliveryTag)
	return nil
}

type grantingLocker struct{}

func (grantingLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	return true, "lock-value", nil
}

func (grantingLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func (grantingLocker) Unlock(ctx context.Context, key, lockValue string) error {
	return nil
}

type fakeEmailSender struct {
	sent []requests.EmailPayload
	err  error
}

func (s *fakeEmailSender) SendEmail(ctx context.Context, payload *requests.EmailPayload) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, *payload)
	return nil
}

type fakeWhatsAppSender struct {
	sent []requests.WhatsAppMessage
	err  error
}

func (s *fakeWhatsAppSender) SendWhatsAppMessage(ctx context.Context, message *requests.WhatsAppMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, *message)
	return nil
}

func newTestWorker(queue *memQueue, email *fakeEmailSender, whatsApp *fakeWhatsAppSender, now time.Time) *Worker {
	return &Worker{
		log: zap.NewNop(),
		cfg: &config.InternalConfig{
			Retry: config.AppRetry{MaxQueue: 10},
		},
		locker:   grantingLocker{},
		queue:    queue,
		email:    email,
		whatsApp: whatsApp,
		stop:     make(chan struct{}),
		now:      func() time.Time { return now },
	}
}

func emailOperation(t *testing.T, id string, retries int, nextRetryAt time.Time) requests.RetryOperation {
	t.Helper()
	payload, err := json.Marshal(requests.EmailPayload{
		To:      "client@example.com",
		Subject: "Your booking for therapy is now ACCEPTED",
		Body:    "Hi there",
	})
	assert.NoError(t, err)
	return requests.RetryOperation{
		ID:          id,
		Channel:     requests.RetryChannelEmail,
		Payload:     payload,
		Retries:     retries,
		NextRetryAt: nextRetryAt,
	}
}

func TestWorkerSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("not yet due goes back untouched", func(t *testing.T) {
		queue := &memQueue{}
		operation := emailOperation(t, "email-1", 2, now.Add(time.Minute))
		queue.items = []QueuedItem{{DeliveryTag: 1, Operation: operation}}
		email := &fakeEmailSender{}
		worker := newTestWorker(queue, email, &fakeWhatsAppSender{}, now)

		worker.runOnce(ctx)

		assert.Empty(t, email.sent)
		assert.Equal(t, []uint64{1}, queue.acked)
		if assert.Len(t, queue.items, 1) {
			requeued := queue.items[0].Operation
			assert.Equal(t, 2, requeued.Retries)
			assert.Equal(t, operation.NextRetryAt, requeued.NextRetryAt)
			assert.Empty(t, requeued.LastError)
		}
	})

	t.Run("due operation delivered and removed", func(t *testing.T) {
		queue := &memQueue{}
		queue.items = []QueuedItem{{DeliveryTag: 1, Operation: emailOperation(t, "email-1", 1, now.Add(-time.Second))}}
		email := &fakeEmailSender{}
		worker := newTestWorker(queue, email, &fakeWhatsAppSender{}, now)

		worker.runOnce(ctx)

		assert.Len(t, email.sent, 1)
		assert.Equal(t, "client@example.com", email.sent[0].To)
		assert.Equal(t, []uint64{1}, queue.acked)
		assert.Empty(t, queue.items)
		assert.Empty(t, queue.dead)
	})

	t.Run("failed delivery reschedules with backoff", func(t *testing.T) {
		queue := &memQueue{}
		queue.items = []QueuedItem{{DeliveryTag: 1, Operation: emailOperation(t, "email-1", 0, now.Add(-time.Second))}}
		email := &fakeEmailSender{err: errors.New("smtp down")}
		worker := newTestWorker(queue, email, &fakeWhatsAppSender{}, now)

		worker.runOnce(ctx)

		if assert.Len(t, queue.items, 1) {
			requeued := queue.items[0].Operation
			assert.Equal(t, 1, requeued.Retries)
			assert.Equal(t, "smtp down", requeued.LastError)
			assert.Equal(t, now.Add(10*time.Second), requeued.NextRetryAt)
		}
		assert.Empty(t, queue.dead)
	})

	t.Run("email cap sends to dead queue", func(t *testing.T) {
		queue := &memQueue{}
		queue.items = []QueuedItem{{DeliveryTag: 1, Operation: emailOperation(t, "email-1", 2, now.Add(-time.Second))}}
		email := &fakeEmailSender{err: errors.New("smtp down")}
		worker := newTestWorker(queue, email, &fakeWhatsAppSender{}, now)

		worker.runOnce(ctx)

		assert.Empty(t, queue.items)
		if assert.Len(t, queue.dead, 1) {
			assert.Equal(t, 3, queue.dead[0].Retries)
			assert.Equal(t, "smtp down", queue.dead[0].LastError)
		}
		assert.Equal(t, []uint64{1}, queue.acked)
	})

	t.Run("whatsapp survives more attempts than email", func(t *testing.T) {
		payload, err := json.Marshal(requests.WhatsAppMessage{PhoneNumber: "+5511999999999", Message: "update"})
		assert.NoError(t, err)
		queue := &memQueue{}
		queue.items = []QueuedItem{{DeliveryTag: 1, Operation: requests.RetryOperation{
			ID:          "whatsapp-1",
			Channel:     requests.RetryChannelWhatsApp,
			Payload:     payload,
			Retries:     2,
			NextRetryAt: now.Add(-time.Second),
		}}}
		whatsApp := &fakeWhatsAppSender{err: errors.New("provider 500")}
		worker := newTestWorker(queue, &fakeEmailSender{}, whatsApp, now)

		worker.runOnce(ctx)

		// Third failure would have killed an email; whatsapp gets two more.
		assert.Empty(t, queue.dead)
		if assert.Len(t, queue.items, 1) {
			assert.Equal(t, 3, queue.items[0].Operation.Retries)
		}
	})

	t.Run("unknown channel exhausts toward dead queue", func(t *testing.T) {
		queue := &memQueue{}
		queue.items = []QueuedItem{{DeliveryTag: 1, Operation: requests.RetryOperation{
			ID:          "carrier-pigeon-1",
			Channel:     "carrier-pigeon",
			Payload:     json.RawMessage(`{}`),
			Retries:     2,
			NextRetryAt: now.Add(-time.Second),
		}}}
		worker := newTestWorker(queue, &fakeEmailSender{}, &fakeWhatsAppSender{}, now)

		worker.runOnce(ctx)

		if assert.Len(t, queue.dead, 1) {
			assert.Contains(t, queue.dead[0].LastError, "unknown retry channel")
		}
	})
}

func TestBackoffDelay(t *testing.T) {
	worker := newTestWorker(&memQueue{}, &fakeEmailSender{}, &fakeWhatsAppSender{}, time.Now())

	t.Run("defaults double from five seconds", func(t *testing.T) {
		assert.Equal(t, 5*time.Second, worker.backoffDelay(0))
		assert.Equal(t, 10*time.Second, worker.backoffDelay(1))
		assert.Equal(t, 20*time.Second, worker.backoffDelay(2))
		assert.Equal(t, 40*time.Second, worker.backoffDelay(3))
	})

	t.Run("caps at the configured maximum", func(t *testing.T) {
		assert.Equal(t, 300*time.Second, worker.backoffDelay(10))
	})

	t.Run("honours configured policy", func(t *testing.T) {
		worker.cfg.Retry = config.AppRetry{
			InitialDelayInSeconds: 2,
			BackoffMultiplier:     3,
			MaxDelayInSeconds:     60,
		}
		assert.Equal(t, 2*time.Second, worker.backoffDelay(0))
		assert.Equal(t, 6*time.Second, worker.backoffDelay(1))
		assert.Equal(t, 18*time.Second, worker.backoffDelay(2))
		assert.Equal(t, 54*time.Second, worker.backoffDelay(3))
		assert.Equal(t, 60*time.Second, worker.backoffDelay(4))
	})
}

func TestMaxRetries(t *testing.T) {
	worker := newTestWorker(&memQueue{}, &fakeEmailSender{}, &fakeWhatsAppSender{}, time.Now())
	assert.Equal(t, 3, worker.maxRetries(requests.RetryChannelEmail))
	assert.Equal(t, 5, worker.maxRetries(requests.RetryChannelWhatsApp))

	worker.cfg.Retry.EmailMaxRetries = 1
	worker.cfg.Retry.WhatsAppMaxRetries = 7
	assert.Equal(t, 1, worker.maxRetries(requests.RetryChannelEmail))
	assert.Equal(t, 7, worker.maxRetries(requests.RetryChannelWhatsApp))
}
