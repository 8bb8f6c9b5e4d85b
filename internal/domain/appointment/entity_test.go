//go:build unit

package appointment_test

import (
	"strings"
	"testing"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.AppointmentBuilder)
	errIs  error
}

func TestNewAppointment(t *testing.T) {
	rules := builder.NewTestRules(clock.NewMockClock(builder.FixedNow))

	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewAppointmentBuilder().BuildDomain(rules)
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.Equal(t, uuid.Nil, actual.ID())
		assert.False(t, actual.IsStored())
		assert.Equal(t, "2026-03-12", actual.Date().String())
		assert.Equal(t, appointment.TimeSlot("10:00"), actual.TimeSlot())
		assert.Equal(t, "Mona Hassan", actual.Customer().FullName())
		assert.Equal(t, appointment.Phone("01012345678"), actual.Customer().Phone())
		assert.Equal(t, appointment.GovernorateCairo, actual.Customer().Governorate())
		assert.Equal(t, []appointment.ServiceID{"facade_wash", "window_cleaning"}, actual.RequestedServices())
		assert.Equal(t, "2026-03-12 10:00", actual.SlotKey().String())
	})

	t.Run("required fields", func(t *testing.T) {
		runCases(t, rules, []testCase{
			{name: "missing date", mutate: func(b *builder.AppointmentBuilder) { b.Date = "" }, errIs: appointment.ErrMissingRequiredFields},
			{name: "missing slot", mutate: func(b *builder.AppointmentBuilder) { b.TimeSlot = "" }, errIs: appointment.ErrMissingRequiredFields},
			{name: "blank full name", mutate: func(b *builder.AppointmentBuilder) { b.FullName = "   " }, errIs: appointment.ErrMissingRequiredFields},
			{name: "missing phone", mutate: func(b *builder.AppointmentBuilder) { b.Phone = "" }, errIs: appointment.ErrMissingRequiredFields},
			{name: "address key absent", mutate: func(b *builder.AppointmentBuilder) { b.AddressLine = nil }, errIs: appointment.ErrMissingRequiredFields},
			{name: "address present but empty", mutate: func(b *builder.AppointmentBuilder) { empty := ""; b.AddressLine = &empty }},
		})
	})

	t.Run("service area", func(t *testing.T) {
		runCases(t, rules, []testCase{
			{name: "governorate omitted", mutate: func(b *builder.AppointmentBuilder) { b.Governorate = "" }},
			{name: "cairo any case", mutate: func(b *builder.AppointmentBuilder) { b.Governorate = " Cairo " }},
			{name: "giza", mutate: func(b *builder.AppointmentBuilder) { b.Governorate = "giza" }, errIs: appointment.ErrOutsideServiceArea},
			{name: "unknown governorate", mutate: func(b *builder.AppointmentBuilder) { b.Governorate = "atlantis" }, errIs: appointment.ErrOutsideServiceArea},
			{
				name: "area checked before phone",
				mutate: func(b *builder.AppointmentBuilder) {
					b.Governorate = "giza"
					b.Phone = "123"
				},
				errIs: appointment.ErrOutsideServiceArea,
			},
		})
	})

	t.Run("phone validation", func(t *testing.T) {
		runCases(t, rules, []testCase{
			{name: "spaces stripped", mutate: func(b *builder.AppointmentBuilder) { b.Phone = "010 1234 5678" }},
			{name: "too short", mutate: func(b *builder.AppointmentBuilder) { b.Phone = "0101234567" }, errIs: appointment.ErrInvalidPhone},
			{name: "too long", mutate: func(b *builder.AppointmentBuilder) { b.Phone = "010123456789" }, errIs: appointment.ErrInvalidPhone},
			{name: "wrong prefix", mutate: func(b *builder.AppointmentBuilder) { b.Phone = "02012345678" }, errIs: appointment.ErrInvalidPhone},
			{name: "international format", mutate: func(b *builder.AppointmentBuilder) { b.Phone = "+201012345678" }, errIs: appointment.ErrInvalidPhone},
			{
				name: "phone checked before date",
				mutate: func(b *builder.AppointmentBuilder) {
					b.Phone = "abc"
					b.Date = "not-a-date"
				},
				errIs: appointment.ErrInvalidPhone,
			},
		})
	})

	t.Run("date validation", func(t *testing.T) {
		runCases(t, rules, []testCase{
			{name: "malformed", mutate: func(b *builder.AppointmentBuilder) { b.Date = "12/03/2026" }, errIs: appointment.ErrInvalidDate},
			{name: "impossible day", mutate: func(b *builder.AppointmentBuilder) { b.Date = "2026-02-30" }, errIs: appointment.ErrInvalidDate},
			{name: "day before window", mutate: func(b *builder.AppointmentBuilder) { b.Date = "2026-03-09" }, errIs: appointment.ErrDateBeforeWindow},
			{name: "first day of window", mutate: func(b *builder.AppointmentBuilder) { b.Date = "2026-03-10" }},
			{name: "last day of window", mutate: func(b *builder.AppointmentBuilder) { b.Date = "2026-05-09" }},
			{name: "day after window", mutate: func(b *builder.AppointmentBuilder) { b.Date = "2026-05-10" }, errIs: appointment.ErrDateAfterWindow},
		})
	})

	t.Run("slot validation", func(t *testing.T) {
		runCases(t, rules, []testCase{
			{name: "first slot", mutate: func(b *builder.AppointmentBuilder) { b.TimeSlot = "09:00" }},
			{name: "last slot", mutate: func(b *builder.AppointmentBuilder) { b.TimeSlot = "16:00" }},
			{name: "after hours", mutate: func(b *builder.AppointmentBuilder) { b.TimeSlot = "17:00" }, errIs: appointment.ErrInvalidTimeSlot},
			{name: "half hour", mutate: func(b *builder.AppointmentBuilder) { b.TimeSlot = "09:30" }, errIs: appointment.ErrInvalidTimeSlot},
			{name: "malformed", mutate: func(b *builder.AppointmentBuilder) { b.TimeSlot = "9" }, errIs: appointment.ErrInvalidTimeSlot},
		})
	})

	t.Run("service validation", func(t *testing.T) {
		runCases(t, rules, []testCase{
			{name: "empty list", mutate: func(b *builder.AppointmentBuilder) { b.SubServices = nil }, errIs: appointment.ErrNoServices},
			{name: "only blanks", mutate: func(b *builder.AppointmentBuilder) { b.SubServices = []string{" ", ""} }, errIs: appointment.ErrNoServices},
			{name: "unknown id", mutate: func(b *builder.AppointmentBuilder) { b.SubServices = []string{"facade_wash", "pool_cleaning"} }, errIs: appointment.ErrUnknownService},
		})

		actual, err := builder.NewAppointmentBuilder().With(func(b *builder.AppointmentBuilder) {
			b.SubServices = []string{"painting", "painting", "driveway"}
		}).BuildDomain(rules)
		require.NoError(t, err)
		assert.Equal(t, []appointment.ServiceID{"painting", "driveway"}, actual.RequestedServices())
	})

	t.Run("oversized fields are truncated", func(t *testing.T) {
		limits := appointment.DefaultFieldLimits()
		actual, err := builder.NewAppointmentBuilder().With(func(b *builder.AppointmentBuilder) {
			b.Notes = strings.Repeat("ن", limits.Notes+50)
			address := strings.Repeat("a", limits.AddressLine+1)
			b.AddressLine = &address
			b.FullName = strings.Repeat("b", limits.FullName+10)
		}).BuildDomain(rules)
		require.NoError(t, err)

		assert.Equal(t, limits.Notes, len([]rune(actual.Customer().Notes())))
		assert.Len(t, actual.Customer().AddressLine(), limits.AddressLine)
		assert.Len(t, actual.Customer().FullName(), limits.FullName)
	})
}

func TestAppointment_Stored(t *testing.T) {
	rules := builder.NewTestRules(clock.NewMockClock(builder.FixedNow))
	draft, err := builder.NewAppointmentBuilder().BuildDomain(rules)
	require.NoError(t, err)

	id := uuid.New()
	createdAt := time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC)
	stored := draft.Stored(id, createdAt)

	assert.True(t, stored.IsStored())
	assert.Equal(t, id, stored.ID())
	assert.Equal(t, createdAt, stored.CreatedAt())
	assert.Equal(t, draft.SlotKey(), stored.SlotKey())
	assert.False(t, draft.IsStored())
}

func runCases(t *testing.T, rules appointment.Rules, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewAppointmentBuilder()
			tc.mutate(b)

			actual, err := b.BuildDomain(rules)
			if tc.errIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, actual)
		})
	}
}
