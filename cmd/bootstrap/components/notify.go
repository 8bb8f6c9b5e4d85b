package components

import (
	"context"
	"log/slog"

	"exoterior-booking/internal/infra/outbox"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/config"
	"exoterior-booking/internal/pkg/metrics"
	"exoterior-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Invoke(StartRelay),
)

// StartRelay runs the outbox relay only on postgres with NOTIFY_ENABLED.
func StartRelay(
	lc fx.Lifecycle,
	cfg config.Config,
	mode config.StoreMode,
	u shared.UnitOfWork,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) {
	if !cfg.Notify.Enabled || mode != config.StoreModePostgres || u == nil {
		return
	}

	var publisher outbox.Publisher
	if brokers := outbox.SplitBrokers(cfg.Notify.KafkaBrokers); len(brokers) > 0 {
		publisher = outbox.NewKafkaPublisher(brokers, cfg.Notify.KafkaTopic)
	} else {
		logger.Warn("Kafkaブローカーが未設定のため、通知はログに出力します")
		publisher = outbox.NewLogPublisher()
	}

	relay := outbox.NewRelay(u, publisher, clk, m, outbox.RelayConfig{
		PollInterval: cfg.Notify.PollInterval,
		BatchSize:    cfg.Notify.BatchSize,
		MaxAttempts:  cfg.Notify.MaxAttempts,
	})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("通知リレーを開始します", "interval", cfg.Notify.PollInterval.String())
			relay.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("通知リレーを停止します")
			return relay.Stop(ctx)
		},
	})
}
