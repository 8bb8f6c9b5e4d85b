//go:build unit

package appointment_test

import (
	"testing"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarPolicy_MinBookableDate(t *testing.T) {
	cairo := builder.CairoLocation()

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "before the first opening year", now: time.Date(2024, time.July, 1, 12, 0, 0, 0, cairo), want: "2025-02-25"},
		{name: "2025 before opening", now: time.Date(2025, time.January, 3, 12, 0, 0, 0, cairo), want: "2025-02-25"},
		{name: "2025 day before opening", now: time.Date(2025, time.February, 24, 23, 0, 0, 0, cairo), want: "2025-02-25"},
		{name: "2025 on opening day", now: time.Date(2025, time.February, 25, 9, 0, 0, 0, cairo), want: "2025-02-25"},
		{name: "2025 after opening", now: time.Date(2025, time.June, 14, 9, 0, 0, 0, cairo), want: "2025-06-14"},
		{name: "2026 before opening", now: time.Date(2026, time.February, 1, 9, 0, 0, 0, cairo), want: "2026-02-25"},
		{name: "2026 after opening", now: time.Date(2026, time.March, 10, 9, 0, 0, 0, cairo), want: "2026-03-10"},
		{name: "2027 january is today", now: time.Date(2027, time.January, 5, 9, 0, 0, 0, cairo), want: "2027-01-05"},
		{name: "late 2030 is today", now: time.Date(2030, time.November, 30, 9, 0, 0, 0, cairo), want: "2030-11-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := appointment.NewCalendarPolicy(clock.NewMockClock(tt.now), cairo)
			assert.Equal(t, tt.want, policy.MinBookableDate().String())
		})
	}
}

func TestCalendarPolicy_UsesCanonicalZone(t *testing.T) {
	// 23:30 UTC on 2026-03-10 is already 2026-03-11 in Cairo.
	now := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	policy := appointment.NewCalendarPolicy(clock.NewMockClock(now), builder.CairoLocation())

	assert.Equal(t, "2026-03-11", policy.Today().String())
	assert.Equal(t, "2026-03-11", policy.MinBookableDate().String())
}

func TestCalendarPolicy_Window(t *testing.T) {
	policy := appointment.NewCalendarPolicy(clock.NewMockClock(builder.FixedNow), builder.CairoLocation())

	window := policy.Window()
	assert.Equal(t, "2026-03-10", window.Min.String())
	assert.Equal(t, "2026-05-09", window.Max.String())
	assert.Equal(t, policy.MaxBookableDate(), window.Max)
	assert.Len(t, window.Slots, 8)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{name: "day before min", date: "2026-03-09", want: false},
		{name: "min inclusive", date: "2026-03-10", want: true},
		{name: "inside", date: "2026-04-01", want: true},
		{name: "max inclusive", date: "2026-05-09", want: true},
		{name: "day after max", date: "2026-05-10", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsValidDate(appointment.MustParseDate(tt.date)))
		})
	}

	assert.False(t, policy.IsValidDate(appointment.Date{}))
}

func TestCalendarPolicy_Options(t *testing.T) {
	grid, err := appointment.NewSlotGrid("08:30", 3, 90*time.Minute)
	require.NoError(t, err)

	policy := appointment.NewCalendarPolicy(
		clock.NewMockClock(time.Date(2031, time.May, 1, 10, 0, 0, 0, time.UTC)),
		time.UTC,
		appointment.WithDaysAhead(7),
		appointment.WithOpenings(appointment.MustParseDate("2031-06-01")),
		appointment.WithSlotGrid(grid),
	)

	assert.Equal(t, "2031-06-01", policy.MinBookableDate().String())
	assert.Equal(t, "2031-06-08", policy.MaxBookableDate().String())
	assert.Equal(t, []appointment.TimeSlot{"08:30", "10:00", "11:30"}, policy.TimeSlots())
	assert.Equal(t, appointment.TimeSlot("13:00"), policy.SlotEnd("11:30"))
}

func TestCalendarPolicy_NoOpenings(t *testing.T) {
	policy := appointment.NewCalendarPolicy(
		clock.NewMockClock(time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)),
		time.UTC,
		appointment.WithOpenings(),
	)
	assert.Equal(t, "2024-01-02", policy.MinBookableDate().String())
}

func TestCalendarPolicy_ClockAdvance(t *testing.T) {
	mc := clock.NewMockClock(time.Date(2026, time.February, 24, 12, 0, 0, 0, builder.CairoLocation()))
	policy := appointment.NewCalendarPolicy(mc, builder.CairoLocation())
	assert.Equal(t, "2026-02-25", policy.MinBookableDate().String())

	mc.AddDays(3)
	assert.Equal(t, "2026-02-27", policy.MinBookableDate().String())
}
