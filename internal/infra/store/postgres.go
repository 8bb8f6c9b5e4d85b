package store

import (
	"context"
	"encoding/json"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra"
	"exoterior-booking/internal/infra/db"
	"exoterior-booking/internal/infra/repository"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/usecase/shared"
)

const appointmentsEndpoint = "POST /api/appointments"

// PostgresStore reserves inside one unit-of-work transaction: optional key claim,
// appointment insert, outbox enqueue. The (date, time_slot) constraint decides every race.
type PostgresStore struct {
	uow   shared.UnitOfWork
	grid  appointment.SlotGrid
	clock clock.Clock
}

func NewPostgresStore(uow shared.UnitOfWork, grid appointment.SlotGrid, clock clock.Clock) *PostgresStore {
	return &PostgresStore{
		uow:   uow,
		grid:  grid,
		clock: clock,
	}
}

func (s *PostgresStore) Mode() shared.StoreMode {
	return shared.StoreModePostgres
}

func (s *PostgresStore) ListOccupiedSlots(ctx context.Context, date appointment.Date) ([]appointment.TimeSlot, error) {
	var slots []appointment.TimeSlot
	err := s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		slots, err = s.uow.Appointments().ListOccupiedSlots(ctx, dbtx, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.grid.Order(slots), nil
}

func (s *PostgresStore) TryReserve(ctx context.Context, appt *appointment.Appointment, opts shared.ReserveOptions) (*shared.Reservation, error) {
	var result *shared.Reservation

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Within may replay this closure on serialization failure.
		result = nil

		if opts.HasIdempotencyKey() {
			replay, err := s.claimKey(ctx, tx, opts)
			if err != nil {
				return err
			}
			if replay != nil {
				result = replay
				return nil
			}
		}

		id, createdAt, err := tx.Appointments().Insert(ctx, tx.DB(), appt)
		if err != nil {
			if infra.IsConstraint(err, repository.AppointmentSlotConstraint) {
				return errs.Mark(err, shared.ErrSlotConflict)
			}
			return err
		}
		stored := appt.Stored(id, createdAt)

		if opts.HasIdempotencyKey() {
			if err := tx.Idempotency().MarkCompleted(ctx, tx.DB(), *opts.IdempotencyKey, id); err != nil {
				return err
			}
		}

		if opts.Summary != nil {
			if err := s.enqueueSummary(ctx, tx, stored, *opts.Summary); err != nil {
				return err
			}
		}

		result = &shared.Reservation{Appointment: stored, Persisted: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// claimKey returns a replayed reservation when the key already completed with the same request.
// A nil reservation and nil error mean the caller owns the key and must insert.
func (s *PostgresStore) claimKey(ctx context.Context, tx shared.Tx, opts shared.ReserveOptions) (*shared.Reservation, error) {
	now := s.clock.Now()
	key := *opts.IdempotencyKey
	expiresAt := now.Add(opts.KeyTTL)

	inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, appointmentsEndpoint, opts.RequestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if inserted {
		return nil, nil
	}

	existing, err := tx.Idempotency().FindByKey(ctx, tx.DB(), key)
	if err != nil {
		return nil, err
	}

	if existing.Expired(now) {
		claimed, err := tx.Idempotency().ClaimExpired(ctx, tx.DB(), key, opts.RequestHash, expiresAt)
		if err != nil {
			return nil, err
		}
		if claimed == 1 {
			return nil, nil
		}
	}

	if existing.RequestHash != opts.RequestHash {
		return nil, shared.ErrIdempotencyConflict
	}

	if existing.Status != shared.IdempotencyStatusCompleted || existing.AppointmentID == nil {
		return nil, errs.Mark(errs.Newf("idempotency key %s has no recorded appointment", key), shared.ErrIdempotencyConflict)
	}

	original, err := tx.Appointments().FindByID(ctx, tx.DB(), *existing.AppointmentID)
	if err != nil {
		return nil, err
	}

	return &shared.Reservation{Appointment: original, Persisted: true, Replayed: true}, nil
}

func (s *PostgresStore) enqueueSummary(ctx context.Context, tx shared.Tx, stored *appointment.Appointment, summary shared.BookingSummary) error {
	summary.AppointmentID = stored.ID()
	summary.BookedAt = stored.CreatedAt()

	payload, err := json.Marshal(summary)
	if err != nil {
		return errs.Wrap(err, "marshal booking summary")
	}

	return tx.Notifications().CreateJob(ctx, tx.DB(), shared.NotificationKindAppointmentBooked, payload, s.clock.Now())
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.uow.Ping(ctx)
}
