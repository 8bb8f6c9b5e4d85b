package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/pkg/metrics"
	"exoterior-booking/internal/usecase/shared"
)

const maxRetryDelay = 10 * time.Minute

type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Relay drains notification_jobs. It never touches appointments.
type Relay struct {
	uow       shared.UnitOfWork
	publisher Publisher
	clock     clock.Clock
	metrics   *metrics.Metrics
	cfg       RelayConfig

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewRelay(uow shared.UnitOfWork, publisher Publisher, clk clock.Clock, m *metrics.Metrics, cfg RelayConfig) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Relay{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		metrics:   m,
		cfg:       cfg,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs the poll loop in the background until Stop.
func (r *Relay) Start() {
	go r.run()
}

func (r *Relay) Stop(ctx context.Context) error {
	r.once.Do(func() { close(r.stop) })
	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.publisher.Close()
}

func (r *Relay) run() {
	defer close(r.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-r.stop
		cancel()
	}()

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				slog.Error("notification relay batch failed", "error", err.Error())
			}
			if _, err := r.SweepExpiredKeys(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("idempotency key sweep failed", "error", err.Error())
			}
		}
	}
}

// RunOnce claims one batch of due jobs and reports how many were delivered.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	delivered := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		delivered = 0
		now := r.clock.Now()

		jobs, err := tx.Notifications().ClaimDue(ctx, tx.DB(), now, r.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			sent, err := r.deliver(ctx, tx, job, now)
			if err != nil {
				return err
			}
			if sent {
				delivered++
			}
		}
		return nil
	})
	if err != nil {
		return 0, errs.Wrap(err, "relay notification batch")
	}
	return delivered, nil
}

// SweepExpiredKeys drops idempotency keys past their TTL. The relay loop is the only
// periodic worker, so it owns this housekeeping too.
func (r *Relay) SweepExpiredKeys(ctx context.Context) (int64, error) {
	var removed int64
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		removed, err = tx.Idempotency().DeleteExpired(ctx, tx.DB())
		return err
	})
	if err != nil {
		return 0, errs.Wrap(err, "sweep expired idempotency keys")
	}
	if removed > 0 {
		slog.Debug("expired idempotency keys removed", "count", removed)
	}
	return removed, nil
}

func (r *Relay) deliver(ctx context.Context, tx shared.Tx, job shared.NotificationJob, now time.Time) (bool, error) {
	pubErr := r.publisher.Publish(ctx, job)
	if pubErr == nil {
		r.metrics.ObserveNotification("sent")
		return true, tx.Notifications().MarkSent(ctx, tx.DB(), job.ID, now)
	}

	attempt := job.Attempts + 1
	if attempt >= r.cfg.MaxAttempts {
		r.metrics.ObserveNotification("failed")
		slog.ErrorContext(ctx, "notification job exhausted retries",
			"job_id", job.ID.String(),
			"attempts", attempt,
			"error", pubErr.Error())
		return false, tx.Notifications().MarkFailed(ctx, tx.DB(), job.ID, pubErr.Error())
	}

	r.metrics.ObserveNotification("retry")
	slog.WarnContext(ctx, "notification publish failed, rescheduling",
		"job_id", job.ID.String(),
		"attempts", attempt,
		"error", pubErr.Error())
	return false, tx.Notifications().MarkRetry(ctx, tx.DB(), job.ID, pubErr.Error(), now.Add(r.retryDelay(attempt)))
}

// retryDelay doubles the poll interval per attempt, capped.
func (r *Relay) retryDelay(attempt int) time.Duration {
	delay := r.cfg.PollInterval
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
