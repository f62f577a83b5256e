package retryqueue

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const workerLockKey = "notification:retry:worker:lock"

// queueStore is the slice of the queue service the worker drives. Kept small
// so tests can supply an in-memory queue.
type queueStore interface {
	FetchN(ctx context.Context, max int) ([]QueuedItem, error)
	Reenqueue(ctx context.Context, operation *requests.RetryOperation) error
	EnqueueToDeadQueue(ctx context.Context, operation *requests.RetryOperation) error
	AckMessage(ctx context.Context, deliveryTag uint64) error
}

// Worker sweeps the retry queue and redelivers due notifications with
// exponential backoff and a per-channel retry cap.
type Worker struct {
	log      *zap.Logger
	cfg      *config.InternalConfig
	locker   contracts.LockerService
	queue    queueStore
	email    contracts.EmailSender
	whatsApp contracts.WhatsAppSender
	stop     chan struct{}
	running  int32
	now      func() time.Time
}

func NewWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	lockerSvc contracts.LockerService,
	queue queueStore,
	emailSender contracts.EmailSender,
	whatsAppSender contracts.WhatsAppSender,
) *Worker {
	return &Worker{
		log:      log,
		cfg:      cfg,
		locker:   lockerSvc,
		queue:    queue,
		email:    emailSender,
		whatsApp: whatsAppSender,
		stop:     make(chan struct{}),
		now:      time.Now,
	}
}

// Start begins the sweep loop. It returns a stop function to halt execution.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	interval := time.Duration(w.cfg.Retry.SweepIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-w.stop:
				ticker.Stop()
				return
			case <-ticker.C:
				// Sweeps never overlap: a slow sweep makes the next tick a no-op.
				if !atomic.CompareAndSwapInt32(&w.running, 0, 1) {
					w.log.Warn("retry sweep still in progress; skipping tick")
					continue
				}
				w.runOnce(ctx)
				atomic.StoreInt32(&w.running, 0)
			}
		}
	}()

	return func() {
		close(w.stop)
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	interval := time.Duration(w.cfg.Retry.SweepIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	acquired, lockValue, err := w.locker.TryLock(ctx, workerLockKey, interval)
	if err != nil {
		w.log.Info("retry worker lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, workerLockKey, lockValue); err != nil {
			w.log.Error("retry worker unlock failed", zap.Error(err))
		}
	}()

	max := w.cfg.Retry.MaxQueue
	if max <= 0 {
		max = 1
	}
	items, err := w.queue.FetchN(ctx, max)
	if err != nil {
		w.log.Info("retry queue FetchN error", zap.Error(err))
		return
	}

	for _, item := range items {
		w.processItem(ctx, item)
	}
}

func (w *Worker) processItem(ctx context.Context, item QueuedItem) {
	operation := item.Operation
	now := w.now()

	// Not due yet: back to the tail untouched.
	if operation.NextRetryAt.After(now) {
		if err := w.queue.Reenqueue(ctx, &operation); err != nil {
			w.log.Info("reenqueue of pending operation failed",
				zap.String(constvars.LoggingOperationIDKey, operation.ID),
				zap.Error(err))
			return
		}
		_ = w.queue.AckMessage(ctx, item.DeliveryTag)
		return
	}

	err := w.deliver(ctx, &operation)
	if err == nil {
		if ackErr := w.queue.AckMessage(ctx, item.DeliveryTag); ackErr != nil {
			w.log.Info("ack failed after successful delivery",
				zap.String(constvars.LoggingOperationIDKey, operation.ID),
				zap.Error(ackErr))
		}
		w.log.Info("notification delivered; removed from retry queue",
			zap.String(constvars.LoggingOperationIDKey, operation.ID),
			zap.String(constvars.LoggingChannelKey, operation.Channel),
			zap.Int(constvars.LoggingRetriesKey, operation.Retries))
		return
	}

	operation.Retries++
	operation.LastError = err.Error()

	if operation.Retries >= w.maxRetries(operation.Channel) {
		if dlqErr := w.queue.EnqueueToDeadQueue(ctx, &operation); dlqErr != nil {
			w.log.Info("enqueue to DLQ failed",
				zap.String(constvars.LoggingOperationIDKey, operation.ID),
				zap.Error(dlqErr))
			return
		}
		_ = w.queue.AckMessage(ctx, item.DeliveryTag)
		w.log.Error("notification dropped after exhausting retries",
			zap.String(constvars.LoggingOperationIDKey, operation.ID),
			zap.String(constvars.LoggingChannelKey, operation.Channel),
			zap.Int(constvars.LoggingRetriesKey, operation.Retries),
			zap.String(constvars.LoggingErrorMessageKey, operation.LastError))
		return
	}

	operation.NextRetryAt = now.Add(w.backoffDelay(operation.Retries))
	if reErr := w.queue.Reenqueue(ctx, &operation); reErr != nil {
		w.log.Info("reenqueue after failed delivery failed",
			zap.String(constvars.LoggingOperationIDKey, operation.ID),
			zap.Error(reErr))
		return
	}
	_ = w.queue.AckMessage(ctx, item.DeliveryTag)
	w.log.Info("delivery failed; rescheduled with backoff",
		zap.String(constvars.LoggingOperationIDKey, operation.ID),
		zap.String(constvars.LoggingChannelKey, operation.Channel),
		zap.Int(constvars.LoggingRetriesKey, operation.Retries),
		zap.Time("next_retry_at", operation.NextRetryAt))
}

func (w *Worker) deliver(ctx context.Context, operation *requests.RetryOperation) error {
	switch operation.Channel {
	case requests.RetryChannelEmail:
		var payload requests.EmailPayload
		if err := json.Unmarshal(operation.Payload, &payload); err != nil {
			return err
		}
		return w.email.SendEmail(ctx, &payload)
	case requests.RetryChannelWhatsApp:
		var payload requests.WhatsAppMessage
		if err := json.Unmarshal(operation.Payload, &payload); err != nil {
			return err
		}
		return w.whatsApp.SendWhatsAppMessage(ctx, &payload)
	default:
		// Unknown channel is unrecoverable; caller moves it toward the DLQ.
		return errUnknownChannel(operation.Channel)
	}
}

// backoffDelay computes initial * multiplier^retries capped at the configured
// maximum.
func (w *Worker) backoffDelay(retries int) time.Duration {
	initial := float64(w.cfg.Retry.InitialDelayInSeconds)
	if initial <= 0 {
		initial = 5
	}
	multiplier := w.cfg.Retry.BackoffMultiplier
	if multiplier <= 1 {
		multiplier = 2
	}
	maxDelay := float64(w.cfg.Retry.MaxDelayInSeconds)
	if maxDelay <= 0 {
		maxDelay = 300
	}

	delay := initial * math.Pow(multiplier, float64(retries))
	if delay > maxDelay {
		delay = maxDelay
	}
	return time.Duration(delay) * time.Second
}

func (w *Worker) maxRetries(channel string) int {
	switch channel {
	case requests.RetryChannelWhatsApp:
		if w.cfg.Retry.WhatsAppMaxRetries > 0 {
			return w.cfg.Retry.WhatsAppMaxRetries
		}
		return 5
	default:
		if w.cfg.Retry.EmailMaxRetries > 0 {
			return w.cfg.Retry.EmailMaxRetries
		}
		return 3
	}
}

type errUnknownChannel string

func (e errUnknownChannel) Error() string {
	return "unknown retry channel: " + string(e)
}
