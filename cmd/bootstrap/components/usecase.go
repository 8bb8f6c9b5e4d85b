package components

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra/catalog"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/config"
	"exoterior-booking/internal/usecase/commands"
	"exoterior-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewCalendarPolicy,
	NewCatalog,
	NewRules,
	func(cfg config.Config) commands.AdmissionConfig {
		return commands.AdmissionConfig{IdempotencyTTL: cfg.Booking.IdempotencyTTL}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAdmissionUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewCatalogQueries,
		queries.NewStatusQueries,
	),
)

func NewCalendarPolicy(cfg config.Config, clk clock.Clock) (*appointment.CalendarPolicy, error) {
	loc, err := time.LoadLocation(cfg.Booking.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load BOOKING_TIMEZONE %q: %w", cfg.Booking.TimeZone, err)
	}

	openings := make([]appointment.Date, 0, len(cfg.Booking.Openings))
	for _, raw := range cfg.Booking.Openings {
		d, err := appointment.ParseDate(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("BOOKING_OPENINGS entry %q: %w", raw, err)
		}
		openings = append(openings, d)
	}

	return appointment.NewCalendarPolicy(clk, loc,
		appointment.WithDaysAhead(cfg.Booking.DaysAhead),
		appointment.WithOpenings(openings...),
	), nil
}

func NewCatalog(cfg config.Config) (*appointment.Catalog, error) {
	return catalog.Load(cfg.Booking.CatalogFile)
}

func NewRules(cfg config.Config, policy *appointment.CalendarPolicy, cat *appointment.Catalog) appointment.Rules {
	var covered []appointment.GovernorateID
	for _, g := range strings.Split(cfg.Booking.ServiceArea, ",") {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			covered = append(covered, appointment.GovernorateID(g))
		}
	}
	area := appointment.DefaultServiceArea()
	if len(covered) > 0 {
		area = appointment.NewServiceArea(covered...)
	} else {
		slog.Warn("BOOKING_SERVICE_AREA is empty, using the default service area")
	}

	return appointment.Rules{
		Calendar: policy,
		Catalog:  cat,
		Area:     area,
		Limits: appointment.FieldLimits{
			FullName:    cfg.Booking.FullNameMaxLen,
			AddressLine: cfg.Booking.AddressMaxLen,
			Notes:       cfg.Booking.NotesMaxLen,
		},
	}
}
