package components

import (
	"context"
	"log/slog"

	"exoterior-booking/internal/handler"
	"exoterior-booking/internal/handler/api"
	"exoterior-booking/internal/handler/validation"
	"exoterior-booking/internal/infra/ratelimit"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAppointmentHandler,
		api.NewCalendarHandler,
		api.NewKeepaliveHandler,
		func(a *api.AppointmentHandler, c *api.CalendarHandler, k *api.KeepaliveHandler) handler.Handlers {
			return handler.Handlers{Appointment: a, Calendar: c, Keepalive: k}
		},
		NewLimiter,
	),
	fx.Invoke(
		validation.RegisterGin,
		handler.NewRouter,
	),
)

// NewLimiter returns nil when rate limiting is disabled.
func NewLimiter(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (ratelimit.Limiter, error) {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return nil, nil
	}
	if rl.RedisURL == "" {
		return ratelimit.NewMemoryLimiter(rl.Requests, rl.Window, clk), nil
	}

	rdb, err := ratelimit.NewRedisClient(context.Background(), rl.RedisURL)
	if err != nil {
		// The in-process window still protects a single instance.
		logger.Warn("Redisに接続できないため、プロセス内のレート制限を使用します", "error", err.Error())
		return ratelimit.NewMemoryLimiter(rl.Requests, rl.Window, clk), nil
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return ratelimit.NewRedisLimiter(rdb, rl.Requests, rl.Window, rl.Prefix), nil
}
