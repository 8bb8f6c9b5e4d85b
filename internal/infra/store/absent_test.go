//go:build unit

package store_test

import (
	"context"
	"testing"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra/store"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/usecase/shared"
	"exoterior-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsentStore(t *testing.T) {
	clk := clock.NewMockClock(builder.FixedNow)
	rules := builder.NewTestRules(clk)
	ctx := context.Background()
	s := store.NewAbsentStore(clk)

	assert.Equal(t, shared.StoreModeAbsent, s.Mode())

	for range 2 {
		res, err := s.TryReserve(ctx, newDraft(t, rules, nil), shared.ReserveOptions{})
		require.NoError(t, err)
		assert.False(t, res.Persisted)
		assert.True(t, res.Appointment.IsStored())
	}

	slots, err := s.ListOccupiedSlots(ctx, appointment.MustParseDate("2026-03-12"))
	require.NoError(t, err)
	assert.Empty(t, slots)

	assert.True(t, errs.Is(s.Ping(ctx), shared.ErrStoreAbsent))
}
