//go:build unit || e2e

package builder

import (
	"time"
	_ "time/tzdata"

	"exoterior-booking/internal/domain/appointment"
	reqdto "exoterior-booking/internal/handler/dto/request"
	"exoterior-booking/internal/infra/catalog"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/ptr"
	"exoterior-booking/internal/usecase/commands"
)

// FixedNow sits inside the 2026 opening, so the window is 2026-03-10 .. 2026-05-09.
var FixedNow = time.Date(2026, time.March, 10, 8, 30, 0, 0, CairoLocation())

func CairoLocation() *time.Location {
	loc, err := time.LoadLocation("Africa/Cairo")
	if err != nil {
		panic(err)
	}
	return loc
}

func NewTestRules(c clock.Clock) appointment.Rules {
	return appointment.Rules{
		Calendar: appointment.NewCalendarPolicy(c, CairoLocation()),
		Catalog:  catalog.Default(),
		Area:     appointment.DefaultServiceArea(),
		Limits:   appointment.DefaultFieldLimits(),
	}
}

type AppointmentBuilder struct {
	Date        string
	TimeSlot    string
	FullName    string
	Phone       string
	AddressLine *string
	Governorate string
	SubServices []string
	Notes       string
}

func NewAppointmentBuilder() *AppointmentBuilder {
	return &AppointmentBuilder{
		Date:        "2026-03-12",
		TimeSlot:    "10:00",
		FullName:    "Mona Hassan",
		Phone:       "01012345678",
		AddressLine: ptr.To("12 Road 9, Maadi"),
		Governorate: "cairo",
		SubServices: []string{"facade_wash", "window_cleaning"},
		Notes:       "Gate code 42",
	}
}

func (b *AppointmentBuilder) With(mutate func(*AppointmentBuilder)) *AppointmentBuilder {
	mutate(b)
	return b
}

func (b *AppointmentBuilder) WithDate(date string) *AppointmentBuilder {
	b.Date = date
	return b
}

func (b *AppointmentBuilder) WithTimeSlot(slot string) *AppointmentBuilder {
	b.TimeSlot = slot
	return b
}

func (b *AppointmentBuilder) WithPhone(phone string) *AppointmentBuilder {
	b.Phone = phone
	return b
}

// Build methods
func (b *AppointmentBuilder) BuildSubmission() appointment.Submission {
	return appointment.Submission{
		Date:        b.Date,
		TimeSlot:    b.TimeSlot,
		FullName:    b.FullName,
		Phone:       b.Phone,
		AddressLine: b.AddressLine,
		Governorate: b.Governorate,
		SubServices: append([]string(nil), b.SubServices...),
		Notes:       b.Notes,
	}
}

func (b *AppointmentBuilder) BuildDomain(rules appointment.Rules) (*appointment.Appointment, error) {
	return appointment.NewAppointment(rules, b.BuildSubmission())
}

func (b *AppointmentBuilder) BuildInput() commands.SubmitAppointmentInput {
	return commands.SubmitAppointmentInput(b.BuildSubmission())
}

func (b *AppointmentBuilder) BuildRequest() reqdto.SubmitAppointmentRequest {
	return reqdto.SubmitAppointmentRequest{
		Date:        b.Date,
		TimeSlot:    b.TimeSlot,
		FullName:    b.FullName,
		Phone:       b.Phone,
		AddressLine: b.AddressLine,
		Governorate: b.Governorate,
		SubServices: append([]string(nil), b.SubServices...),
		Notes:       b.Notes,
	}
}
