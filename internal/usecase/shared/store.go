package shared

//go:generate mockgen -source=store.go -destination=../../../tests/mock/shared/store.go -package=sharedmock

import (
	"context"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type StoreMode string

const (
	StoreModePostgres StoreMode = "postgres"
	StoreModeMemory   StoreMode = "memory"
	StoreModeAbsent   StoreMode = "absent"
)

var (
	ErrStoreAbsent = errs.New("booking store is not configured")

	// ErrSlotConflict marks the one failure that means the slot went to another booking.
	// Any other uniqueness violation is a storage fault.
	ErrSlotConflict = errs.New("slot already reserved")

	// ErrIdempotencyConflict: the key was already used for a different request body.
	ErrIdempotencyConflict = errs.New("idempotency key reused with a different request")
)

// BookingStore is the single authority on slot occupancy. TryReserve must be one atomic
// insert guarded by (date, time_slot) uniqueness; implementations never check before inserting.
type BookingStore interface {
	Mode() StoreMode
	ListOccupiedSlots(ctx context.Context, date appointment.Date) ([]appointment.TimeSlot, error)
	TryReserve(ctx context.Context, appt *appointment.Appointment, opts ReserveOptions) (*Reservation, error)
	Ping(ctx context.Context) error
}

type ReserveOptions struct {
	IdempotencyKey *uuid.UUID
	RequestHash    string
	KeyTTL         time.Duration

	// Summary is enqueued for the notification relay in the same transaction when non-nil.
	Summary *BookingSummary
}

func (o ReserveOptions) HasIdempotencyKey() bool {
	return o.IdempotencyKey != nil && *o.IdempotencyKey != uuid.Nil
}

type Reservation struct {
	Appointment *appointment.Appointment
	Persisted   bool
	Replayed    bool
}

// BookingSummary is the human-readable record handed to outbound delivery.
type BookingSummary struct {
	AppointmentID  uuid.UUID `json:"appointmentId"`
	Date           string    `json:"date"`
	TimeSlot       string    `json:"timeSlot"`
	SlotEnd        string    `json:"slotEnd"`
	FullName       string    `json:"fullName"`
	Phone          string    `json:"phone"`
	AddressLine    string    `json:"addressLine"`
	Governorate    string    `json:"governorate,omitempty"`
	SubServices    []string  `json:"subServices"`
	Notes          string    `json:"notes,omitempty"`
	EstimateMinEGP int       `json:"estimateMinEgp,omitempty"`
	EstimateMaxEGP int       `json:"estimateMaxEgp,omitempty"`
	BookedAt       time.Time `json:"bookedAt"`
}

const NotificationKindAppointmentBooked = "appointment.booked"
