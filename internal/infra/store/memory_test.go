//go:build unit

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra"
	"exoterior-booking/internal/infra/store"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/usecase/shared"
	"exoterior-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(t *testing.T, rules appointment.Rules, mutate func(*builder.AppointmentBuilder)) *appointment.Appointment {
	t.Helper()
	b := builder.NewAppointmentBuilder()
	if mutate != nil {
		b.With(mutate)
	}
	appt, err := b.BuildDomain(rules)
	require.NoError(t, err)
	return appt
}

func TestMemoryStore_TryReserve(t *testing.T) {
	clk := clock.NewMockClock(builder.FixedNow)
	rules := builder.NewTestRules(clk)
	ctx := context.Background()

	t.Run("first booking wins, same slot conflicts", func(t *testing.T) {
		s := store.NewMemoryStore(appointment.DefaultSlotGrid(), clk)

		res, err := s.TryReserve(ctx, newDraft(t, rules, nil), shared.ReserveOptions{})
		require.NoError(t, err)
		assert.True(t, res.Persisted)
		assert.False(t, res.Replayed)
		assert.True(t, res.Appointment.IsStored())
		assert.Equal(t, builder.FixedNow, res.Appointment.CreatedAt())

		_, err = s.TryReserve(ctx, newDraft(t, rules, func(b *builder.AppointmentBuilder) { b.FullName = "Someone Else" }), shared.ReserveOptions{})
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
		assert.True(t, errs.Is(err, shared.ErrSlotConflict))
	})

	t.Run("different slot same day succeeds", func(t *testing.T) {
		s := store.NewMemoryStore(appointment.DefaultSlotGrid(), clk)

		_, err := s.TryReserve(ctx, newDraft(t, rules, nil), shared.ReserveOptions{})
		require.NoError(t, err)
		_, err = s.TryReserve(ctx, newDraft(t, rules, func(b *builder.AppointmentBuilder) { b.TimeSlot = "11:00" }), shared.ReserveOptions{})
		require.NoError(t, err)

		slots, err := s.ListOccupiedSlots(ctx, appointment.MustParseDate("2026-03-12"))
		require.NoError(t, err)
		assert.Equal(t, []appointment.TimeSlot{"10:00", "11:00"}, slots)

		other, err := s.ListOccupiedSlots(ctx, appointment.MustParseDate("2026-03-13"))
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("summary is enqueued with id and booking time", func(t *testing.T) {
		s := store.NewMemoryStore(appointment.DefaultSlotGrid(), clk)

		res, err := s.TryReserve(ctx, newDraft(t, rules, nil), shared.ReserveOptions{
			Summary: &shared.BookingSummary{Date: "2026-03-12", TimeSlot: "10:00"},
		})
		require.NoError(t, err)

		outbox := s.Outbox()
		require.Len(t, outbox, 1)
		assert.Equal(t, res.Appointment.ID(), outbox[0].AppointmentID)
		assert.Equal(t, builder.FixedNow, outbox[0].BookedAt)
	})

	t.Run("failing store reports a storage error, not a conflict", func(t *testing.T) {
		s := store.NewMemoryStore(appointment.DefaultSlotGrid(), clk)
		s.FailWith(errors.New("disk on fire"))

		_, err := s.TryReserve(ctx, newDraft(t, rules, nil), shared.ReserveOptions{})
		require.Error(t, err)
		assert.False(t, infra.IsKind(err, infra.KindDuplicateKey))
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))

		_, err = s.ListOccupiedSlots(ctx, appointment.MustParseDate("2026-03-12"))
		assert.Error(t, err)
		assert.Error(t, s.Ping(ctx))

		s.FailWith(nil)
		assert.NoError(t, s.Ping(ctx))
	})
}

func TestMemoryStore_ConcurrentSameSlot(t *testing.T) {
	clk := clock.NewMockClock(builder.FixedNow)
	rules := builder.NewTestRules(clk)
	s := store.NewMemoryStore(appointment.DefaultSlotGrid(), clk)

	const attempts = 50
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
		start     = make(chan struct{})
	)

	drafts := make([]*appointment.Appointment, attempts)
	for i := range drafts {
		drafts[i] = newDraft(t, rules, nil)
	}

	for i := range attempts {
		wg.Add(1)
		go func(appt *appointment.Appointment) {
			defer wg.Done()
			<-start
			_, err := s.TryReserve(context.Background(), appt, shared.ReserveOptions{})
			switch {
			case err == nil:
				successes.Add(1)
			case infra.IsKind(err, infra.KindDuplicateKey):
				conflicts.Add(1)
			}
		}(drafts[i])
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())

	slots, err := s.ListOccupiedSlots(context.Background(), appointment.MustParseDate("2026-03-12"))
	require.NoError(t, err)
	assert.Equal(t, []appointment.TimeSlot{"10:00"}, slots)
}

func TestMemoryStore_Idempotency(t *testing.T) {
	clk := clock.NewMockClock(builder.FixedNow)
	rules := builder.NewTestRules(clk)
	ctx := context.Background()
	key := uuid.New()

	opts := shared.ReserveOptions{IdempotencyKey: &key, RequestHash: "hash-a", KeyTTL: time.Hour}

	t.Run("replay returns the original booking", func(t *testing.T) {
		s := store.NewMemoryStore(appointment.DefaultSlotGrid(), clk)

		first, err := s.TryReserve(ctx, newDraft(t, rules, nil), opts)
		require.NoError(t, err)

		again, err := s.TryReserve(ctx, newDraft(t, rules, nil), opts)
		require.NoError(t, err)
		assert.True(t, again.Replayed)
		assert.Equal(t, first.Appointment.ID(), again.Appointment.ID())
	})

	t.Run("same key with another payload is rejected", func(t *testing.T) {
		s := store.NewMemoryStore(appointment.DefaultSlotGrid(), clk)

		_, err := s.TryReserve(ctx, newDraft(t, rules, nil), opts)
		require.NoError(t, err)

		other := opts
		other.RequestHash = "hash-b"
		_, err = s.TryReserve(ctx, newDraft(t, rules, nil), other)
		require.Error(t, err)
		assert.True(t, errs.Is(err, shared.ErrIdempotencyConflict))
	})

	t.Run("expired key no longer replays", func(t *testing.T) {
		localClock := clock.NewMockClock(builder.FixedNow)
		s := store.NewMemoryStore(appointment.DefaultSlotGrid(), localClock)

		_, err := s.TryReserve(ctx, newDraft(t, rules, nil), opts)
		require.NoError(t, err)

		localClock.Add(2 * time.Hour)
		_, err = s.TryReserve(ctx, newDraft(t, rules, nil), opts)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})
}
