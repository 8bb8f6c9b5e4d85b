package bootstrap

import (
	"exoterior-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TelemetryModule,
	DBModule,
	components.StoreModule,
	components.UseCaseModule,
	components.HandlerModule,
	components.NotifyModule,
)
