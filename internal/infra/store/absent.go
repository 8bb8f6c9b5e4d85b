package store

import (
	"context"
	"log/slog"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// AbsentStore is the optional-persistence mode: bookings are acknowledged but not kept,
// so nothing is ever occupied and no conflict is ever reported.
type AbsentStore struct {
	clock clock.Clock
}

func NewAbsentStore(clock clock.Clock) *AbsentStore {
	return &AbsentStore{clock: clock}
}

func (s *AbsentStore) Mode() shared.StoreMode {
	return shared.StoreModeAbsent
}

func (s *AbsentStore) ListOccupiedSlots(context.Context, appointment.Date) ([]appointment.TimeSlot, error) {
	return nil, nil
}

func (s *AbsentStore) TryReserve(_ context.Context, appt *appointment.Appointment, _ shared.ReserveOptions) (*shared.Reservation, error) {
	slog.Debug("booking accepted without persistence", "slot", appt.SlotKey().String())
	return &shared.Reservation{
		Appointment: appt.Stored(uuid.New(), s.clock.Now()),
		Persisted:   false,
	}, nil
}

func (s *AbsentStore) Ping(context.Context) error {
	return shared.ErrStoreAbsent
}
