//go:build unit

package components_test

import (
	"testing"

	"exoterior-booking/cmd/bootstrap/components"
	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/infra/catalog"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/config"
	"exoterior-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
)

func TestNewRules_ServiceArea(t *testing.T) {
	policy := appointment.NewCalendarPolicy(clock.NewMockClock(builder.FixedNow), builder.CairoLocation())

	cases := []struct {
		name    string
		area    string
		covered []appointment.GovernorateID
		refused []appointment.GovernorateID
	}{
		{name: "default", area: "cairo", covered: []appointment.GovernorateID{"cairo"}, refused: []appointment.GovernorateID{"giza"}},
		{name: "list with spacing and case", area: " Giza, CAIRO ", covered: []appointment.GovernorateID{"cairo", "giza"}, refused: []appointment.GovernorateID{"suez"}},
		{name: "empty falls back to default", area: "", covered: []appointment.GovernorateID{"cairo"}, refused: []appointment.GovernorateID{"giza"}},
		{name: "only separators falls back to default", area: " , ", covered: []appointment.GovernorateID{"cairo"}, refused: []appointment.GovernorateID{"giza"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			cfg.Booking.ServiceArea = tc.area

			rules := components.NewRules(cfg, policy, catalog.Default())

			for _, g := range tc.covered {
				assert.True(t, rules.Area.Covers(g), "expected %s covered", g)
			}
			for _, g := range tc.refused {
				assert.False(t, rules.Area.Covers(g), "expected %s refused", g)
			}
			assert.True(t, rules.Area.Covers(""), "blank governorate is inside the area")
		})
	}
}
