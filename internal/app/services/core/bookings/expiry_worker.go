package bookings

import (
	"context"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/contracts"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// expiryLeaderLockKey ensures a single instance runs the sweep.
const expiryLeaderLockKey = "booking:expiry:leader"

// ExpiryWorker periodically moves PENDING hold bookings whose deadline
// elapsed to EXPIRED.
type ExpiryWorker struct {
	log               *zap.Logger
	cfg               *config.InternalConfig
	locker            contracts.LockerService
	bookingRepository contracts.BookingRepository
	cron              *cron.Cron
	runCtx            context.Context
	cancel            context.CancelFunc
}

func NewExpiryWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, bookingRepository contracts.BookingRepository) *ExpiryWorker {
	return &ExpiryWorker{
		log:               log,
		cfg:               cfg,
		locker:            lockerSvc,
		bookingRepository: bookingRepository,
	}
}

// Start schedules the sweep with the configured cron spec.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Booking.HoldExpiryCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("expiry worker: invalid cron spec; falling back to @every 1m", zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@every 1m", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels in-flight sweeps and waits for running jobs to finish.
func (w *ExpiryWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *ExpiryWorker) runOnce(ctx context.Context) {
	ttl := 2 * time.Minute
	acquired, token, err := w.locker.TryLock(ctx, expiryLeaderLockKey, ttl)
	if err != nil {
		w.log.Warn("expiry worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("expiry worker: leader lock not acquired; another instance is running")
		return
	}
	defer w.locker.Unlock(ctx, expiryLeaderLockKey, token)

	expired, err := w.bookingRepository.ExpireOverdueHolds(ctx, time.Now())
	if err != nil {
		w.log.Warn("expiry worker: sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		w.log.Info("expiry worker: moved overdue holds to EXPIRED", zap.Int64("expired_count", expired))
	}
}
