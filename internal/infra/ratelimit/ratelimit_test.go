//go:build unit

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"exoterior-booking/internal/infra/ratelimit"
	"exoterior-booking/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	mc := clock.NewMockClock(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute, mc)

	t.Run("allows up to the limit per key", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			ok, err := limiter.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.True(t, ok)
		}
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		ok, err := limiter.Allow(ctx, "10.0.0.2")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("window resets", func(t *testing.T) {
		mc.Add(time.Minute)
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
