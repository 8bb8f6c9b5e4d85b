package components

import (
	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra/store"
	"exoterior-booking/internal/infra/uow"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/config"
	"exoterior-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewUnitOfWork,
		NewBookingStore,
	),
)

// NewUnitOfWork is nil outside postgres mode.
func NewUnitOfWork(pool *pgxpool.Pool) shared.UnitOfWork {
	if pool == nil {
		return nil
	}
	return uow.NewPostgresUoW(pool)
}

func NewBookingStore(mode config.StoreMode, u shared.UnitOfWork, policy *appointment.CalendarPolicy, clk clock.Clock) shared.BookingStore {
	switch mode {
	case config.StoreModePostgres:
		return store.NewPostgresStore(u, policy.Grid(), clk)
	case config.StoreModeMemory:
		return store.NewMemoryStore(policy.Grid(), clk)
	default:
		return store.NewAbsentStore(clk)
	}
}
