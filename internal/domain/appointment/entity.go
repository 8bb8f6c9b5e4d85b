package appointment

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rules bundles everything NewAppointment validates against.
type Rules struct {
	Calendar *CalendarPolicy
	Catalog  *Catalog
	Area     ServiceArea
	Limits   FieldLimits
}

// Submission is the raw, untrusted booking payload. A nil AddressLine means the field was omitted.
type Submission struct {
	Date        string
	TimeSlot    string
	FullName    string
	Phone       string
	AddressLine *string
	Governorate string
	SubServices []string
	Notes       string
}

type Appointment struct {
	id                uuid.UUID
	date              Date
	timeSlot          TimeSlot
	customer          Customer
	requestedServices []ServiceID
	createdAt         time.Time
}

// NewAppointment validates in a fixed order and returns the first violated rule.
// The result has no identity until a store assigns one.
func NewAppointment(rules Rules, sub Submission) (*Appointment, error) {
	if isBlank(sub.Date) || isBlank(sub.TimeSlot) || isBlank(sub.FullName) || isBlank(sub.Phone) || sub.AddressLine == nil {
		return nil, ErrMissingRequiredFields
	}

	governorate := GovernorateID(strings.ToLower(strings.TrimSpace(sub.Governorate)))
	if !rules.Area.Covers(governorate) {
		return nil, ErrOutsideServiceArea
	}

	phone, err := NewPhone(sub.Phone)
	if err != nil {
		return nil, err
	}

	date, err := ParseDate(strings.TrimSpace(sub.Date))
	if err != nil {
		return nil, err
	}
	window := rules.Calendar.Window()
	if date.Before(window.Min) {
		return nil, fmt.Errorf("%w: opens %s", ErrDateBeforeWindow, window.Min)
	}
	if date.After(window.Max) {
		return nil, fmt.Errorf("%w: last bookable day is %s", ErrDateAfterWindow, window.Max)
	}

	slot, err := ParseTimeSlot(strings.TrimSpace(sub.TimeSlot))
	if err != nil {
		return nil, err
	}
	if !rules.Calendar.IsValidSlot(slot) {
		return nil, ErrInvalidTimeSlot
	}

	services, err := parseServices(rules.Catalog, sub.SubServices)
	if err != nil {
		return nil, err
	}

	return &Appointment{
		date:              date,
		timeSlot:          slot,
		customer:          NewCustomer(sub.FullName, phone, *sub.AddressLine, sub.Notes, governorate, rules.Limits),
		requestedServices: services,
	}, nil
}

func parseServices(catalog *Catalog, raw []string) ([]ServiceID, error) {
	services := make([]ServiceID, 0, len(raw))
	for _, r := range raw {
		id := ServiceID(strings.TrimSpace(r))
		if id == "" {
			continue
		}
		if !catalog.IsKnown(id) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownService, id)
		}
		if !slices.Contains(services, id) {
			services = append(services, id)
		}
	}
	if len(services) == 0 {
		return nil, ErrNoServices
	}
	return services, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func Reconstruct(
	id uuid.UUID,
	date Date,
	timeSlot TimeSlot,
	customer Customer,
	requestedServices []ServiceID,
	createdAt time.Time,
) *Appointment {
	return &Appointment{
		id:                id,
		date:              date,
		timeSlot:          timeSlot,
		customer:          customer,
		requestedServices: slices.Clone(requestedServices),
		createdAt:         createdAt,
	}
}

// Stored returns a copy carrying the identity assigned by a store.
func (a *Appointment) Stored(id uuid.UUID, createdAt time.Time) *Appointment {
	return Reconstruct(id, a.date, a.timeSlot, a.customer, a.requestedServices, createdAt)
}

func (a *Appointment) IsStored() bool { return a.id != uuid.Nil }

func (a *Appointment) ID() uuid.UUID                  { return a.id }
func (a *Appointment) Date() Date                     { return a.date }
func (a *Appointment) TimeSlot() TimeSlot             { return a.timeSlot }
func (a *Appointment) Customer() Customer             { return a.customer }
func (a *Appointment) RequestedServices() []ServiceID { return slices.Clone(a.requestedServices) }
func (a *Appointment) CreatedAt() time.Time           { return a.createdAt }

// SlotKey is the uniqueness key shared by every store implementation.
func (a *Appointment) SlotKey() SlotKey {
	return SlotKey{Date: a.date, TimeSlot: a.timeSlot}
}

type SlotKey struct {
	Date     Date
	TimeSlot TimeSlot
}

func (k SlotKey) String() string {
	return k.Date.String() + " " + k.TimeSlot.String()
}
