package store

import (
	"context"
	"sync"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type memoryKey struct {
	requestHash   string
	appointmentID uuid.UUID
	expiresAt     time.Time
}

// MemoryStore keeps bookings in process. The mutex makes the uniqueness check and the
// insert one step, which is what the database constraint gives PostgresStore.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	grid    appointment.SlotGrid
	bySlot  map[string]*appointment.Appointment
	byID    map[uuid.UUID]*appointment.Appointment
	keys    map[uuid.UUID]memoryKey
	outbox  []shared.BookingSummary
	failErr error
}

func NewMemoryStore(grid appointment.SlotGrid, clock clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:  clock,
		grid:   grid,
		bySlot: make(map[string]*appointment.Appointment),
		byID:   make(map[uuid.UUID]*appointment.Appointment),
		keys:   make(map[uuid.UUID]memoryKey),
	}
}

func (s *MemoryStore) Mode() shared.StoreMode {
	return shared.StoreModeMemory
}

func (s *MemoryStore) ListOccupiedSlots(ctx context.Context, date appointment.Date) ([]appointment.TimeSlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list occupied slots", err, infra.KindDBFailure)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return nil, infra.WrapRepoErr("failed to list occupied slots", s.failErr, infra.KindDBFailure)
	}

	slots := make([]appointment.TimeSlot, 0, len(s.bySlot))
	for _, a := range s.bySlot {
		if a.Date().Equal(date) {
			slots = append(slots, a.TimeSlot())
		}
	}
	return s.grid.Order(slots), nil
}

func (s *MemoryStore) TryReserve(ctx context.Context, appt *appointment.Appointment, opts shared.ReserveOptions) (*shared.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to insert appointment", err, infra.KindDBFailure)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return nil, infra.WrapRepoErr("failed to insert appointment", s.failErr, infra.KindDBFailure)
	}

	now := s.clock.Now()

	if opts.HasIdempotencyKey() {
		if k, ok := s.keys[*opts.IdempotencyKey]; ok && now.Before(k.expiresAt) {
			if k.requestHash != opts.RequestHash {
				return nil, shared.ErrIdempotencyConflict
			}
			return &shared.Reservation{Appointment: s.byID[k.appointmentID], Persisted: true, Replayed: true}, nil
		}
	}

	slotKey := appt.SlotKey().String()
	if _, taken := s.bySlot[slotKey]; taken {
		return nil, errs.Mark(infra.WrapRepoErr("failed to insert appointment", nil, infra.KindDuplicateKey), shared.ErrSlotConflict)
	}

	stored := appt.Stored(uuid.New(), now)
	s.bySlot[slotKey] = stored
	s.byID[stored.ID()] = stored

	if opts.HasIdempotencyKey() {
		s.keys[*opts.IdempotencyKey] = memoryKey{
			requestHash:   opts.RequestHash,
			appointmentID: stored.ID(),
			expiresAt:     now.Add(opts.KeyTTL),
		}
	}

	if opts.Summary != nil {
		summary := *opts.Summary
		summary.AppointmentID = stored.ID()
		summary.BookedAt = now
		s.outbox = append(s.outbox, summary)
	}

	return &shared.Reservation{Appointment: stored, Persisted: true}, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	return ctx.Err()
}

// Outbox returns the summaries enqueued so far.
func (s *MemoryStore) Outbox() []shared.BookingSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shared.BookingSummary(nil), s.outbox...)
}

// FailWith makes every subsequent call fail with err until called with nil.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}
