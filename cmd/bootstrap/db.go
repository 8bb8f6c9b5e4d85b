package bootstrap

import (
	"context"
	"log/slog"

	"exoterior-booking/internal/infra/db"
	"exoterior-booking/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB yields a nil pool unless the store runs on postgres.
func NewDB(lc fx.Lifecycle, cfg config.Config, mode config.StoreMode, logger *slog.Logger) (*pgxpool.Pool, error) {
	if mode != config.StoreModePostgres {
		logger.Info("データベースを使用しません", "store", string(mode))
		return nil, nil
	}

	ctx := context.Background()
	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	if cfg.Store.MigrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			cleanup()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
