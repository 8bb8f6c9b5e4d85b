package bootstrap

import (
	"exoterior-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) (config.StoreMode, error) {
			return cfg.ResolveStoreMode()
		},
	),
)
