//go:build unit

package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exoterior-booking/internal/client"
	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/handler"
	"exoterior-booking/internal/handler/api"
	"exoterior-booking/internal/handler/validation"
	"exoterior-booking/internal/infra/store"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/config"
	"exoterior-booking/internal/pkg/metrics"
	"exoterior-booking/internal/usecase/commands"
	"exoterior-booking/internal/usecase/queries"
	"exoterior-booking/tests/common/builder"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBookingServer runs the real router over an in-memory store.
func newBookingServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterGin())

	clk := clock.NewMockClock(builder.FixedNow)
	rules := builder.NewTestRules(clk)
	mem := store.NewMemoryStore(rules.Calendar.Grid(), clk)
	m := metrics.New()

	availability := queries.NewAvailabilityQueries(mem, rules.Calendar, m)
	admission := commands.NewAdmissionUseCase(mem, rules, commands.AdmissionConfig{}, m)

	engine := gin.New()
	handler.NewRouter(engine, config.NewTestConfig(), handler.Handlers{
		Appointment: api.NewAppointmentHandler(admission, availability),
		Calendar:    api.NewCalendarHandler(availability, queries.NewCatalogQueries(rules.Catalog)),
		Keepalive:   api.NewKeepaliveHandler(queries.NewStatusQueries(mem)),
	}, m, nil)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPBookingAPI_RoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := newBookingServer(t)
	c := client.NewHTTPBookingAPI(srv.URL+"/", time.Second)
	date := appointment.MustParseDate("2026-03-12")

	taken, err := c.TakenSlots(ctx, date)
	require.NoError(t, err)
	assert.Empty(t, taken)

	req := builder.NewAppointmentBuilder().BuildRequest()
	key := uuid.New()

	first, err := c.Submit(ctx, req, &key)
	require.NoError(t, err)
	assert.Equal(t, client.OutcomeReserved, first.Outcome)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Replayed)

	replay, err := c.Submit(ctx, req, &key)
	require.NoError(t, err)
	assert.Equal(t, client.OutcomeReserved, replay.Outcome)
	assert.Equal(t, first.ID, replay.ID)
	assert.True(t, replay.Replayed)

	conflict, err := c.Submit(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, client.OutcomeSlotTaken, conflict.Outcome)
	assert.Equal(t, "Slot already booked", conflict.Message)

	taken, err = c.TakenSlots(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, []appointment.TimeSlot{"10:00"}, taken)

	invalid := builder.NewAppointmentBuilder().WithTimeSlot("11:00").WithPhone("123").BuildRequest()
	rejected, err := c.Submit(ctx, invalid, nil)
	require.NoError(t, err)
	assert.Equal(t, client.OutcomeValidationError, rejected.Outcome)
	assert.Equal(t, "Invalid phone number", rejected.Message)
}

func TestHTTPBookingAPI_StatusMapping(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		outcome client.Outcome
		wantErr bool
	}{
		{status: http.StatusForbidden, body: `{"error":"Service available in Cairo only"}`, outcome: client.OutcomeValidationError},
		{status: http.StatusUnprocessableEntity, body: `{"error":"reused"}`, outcome: client.OutcomeValidationError},
		{status: http.StatusTooManyRequests, body: `{"error":"Too many requests"}`, outcome: client.OutcomeRateLimited},
		{status: http.StatusInternalServerError, body: `{"error":"Failed to book"}`, outcome: client.OutcomeStorageFailure},
		{status: http.StatusBadGateway, body: `upstream`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			res, err := client.NewHTTPBookingAPI(srv.URL, time.Second).
				Submit(context.Background(), builder.NewAppointmentBuilder().BuildRequest(), nil)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, client.ErrUnexpectedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.outcome, res.Outcome)
		})
	}
}

func TestHTTPBookingAPI_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.NewHTTPBookingAPI(url, time.Second).TakenSlots(context.Background(), appointment.MustParseDate("2026-03-12"))
	assert.Error(t, err)
}
