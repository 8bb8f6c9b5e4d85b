package commands

//go:generate mockgen -source=admission.go -destination=../../../tests/mock/commands/admission.go -package=commandsmock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/pkg/metrics"
	"exoterior-booking/internal/pkg/telemetry"
	"exoterior-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrValidation           = errs.New("validation error")
	ErrOutsideServiceArea   = errs.New("outside service area")
	ErrSlotTaken            = errs.New("slot already booked")
	ErrStorageFailure       = errs.New("storage failure")
	ErrIdempotencyKeyReused = errs.New("idempotency key reused")
)

// SubmitAppointmentInput mirrors appointment.Submission so callers convert without copying.
type SubmitAppointmentInput struct {
	Date        string
	TimeSlot    string
	FullName    string
	Phone       string
	AddressLine *string
	Governorate string
	SubServices []string
	Notes       string
}

type Outcome string

const (
	OutcomeReserved          Outcome = "reserved"
	OutcomeValidationError   Outcome = "validation_error"
	OutcomeOutsideArea       Outcome = "outside_area"
	OutcomeSlotTaken         Outcome = "slot_taken"
	OutcomeStorageFailure    Outcome = "storage_failure"
	OutcomeIdempotencyReused Outcome = "idempotency_reused"
)

type AdmissionResult struct {
	Outcome       Outcome
	AppointmentID uuid.UUID
	Date          appointment.Date
	TimeSlot      appointment.TimeSlot
	Persisted     bool
	Replayed      bool
	State         AdmissionState
}

type AdmissionCommands interface {
	Submit(ctx context.Context, input SubmitAppointmentInput, idempotencyKey *uuid.UUID) (*AdmissionResult, error)
}

type AdmissionConfig struct {
	IdempotencyTTL time.Duration
}

type admissionUseCaseImpl struct {
	store   shared.BookingStore
	rules   appointment.Rules
	cfg     AdmissionConfig
	metrics *metrics.Metrics
}

func NewAdmissionUseCase(
	store shared.BookingStore,
	rules appointment.Rules,
	cfg AdmissionConfig,
	m *metrics.Metrics,
) AdmissionCommands {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	return &admissionUseCaseImpl{
		store:   store,
		rules:   rules,
		cfg:     cfg,
		metrics: m,
	}
}

func (a *admissionUseCaseImpl) Submit(
	ctx context.Context,
	input SubmitAppointmentInput,
	idempotencyKey *uuid.UUID,
) (*AdmissionResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "admission.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.date", input.Date),
		attribute.String("booking.time_slot", input.TimeSlot),
	)

	sm := newAdmissionMachine()

	appt, err := appointment.NewAppointment(a.rules, appointment.Submission(input))
	if err != nil {
		sm.to(StateRejected)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, appointment.ErrOutsideServiceArea) {
			a.metrics.ObserveAdmission(string(OutcomeOutsideArea))
			return nil, errs.Mark(err, ErrOutsideServiceArea)
		}
		a.metrics.ObserveAdmission(string(OutcomeValidationError))
		return nil, errs.Mark(err, ErrValidation)
	}

	sm.to(StateReserving)

	opts := shared.ReserveOptions{
		KeyTTL:  a.cfg.IdempotencyTTL,
		Summary: a.buildSummary(appt),
	}
	if idempotencyKey != nil && *idempotencyKey != uuid.Nil && a.store.Mode() != shared.StoreModeAbsent {
		opts.IdempotencyKey = idempotencyKey
		opts.RequestHash = a.calculateRequestHash(input)
	}

	reservation, err := a.store.TryReserve(ctx, appt, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, a.mapStoreError(ctx, sm, appt, err)
	}

	sm.to(StateReserved)
	a.metrics.ObserveAdmission(string(OutcomeReserved))
	if !reservation.Persisted {
		slog.DebugContext(ctx, "booking accepted without durable storage", "slot", appt.SlotKey().String())
	}

	stored := reservation.Appointment
	span.SetAttributes(
		attribute.String("booking.appointment_id", stored.ID().String()),
		attribute.Bool("booking.replayed", reservation.Replayed),
	)

	return &AdmissionResult{
		Outcome:       OutcomeReserved,
		AppointmentID: stored.ID(),
		Date:          stored.Date(),
		TimeSlot:      stored.TimeSlot(),
		Persisted:     reservation.Persisted,
		Replayed:      reservation.Replayed,
		State:         sm.state,
	}, nil
}

func (a *admissionUseCaseImpl) mapStoreError(
	ctx context.Context,
	sm *admissionMachine,
	appt *appointment.Appointment,
	err error,
) error {
	switch {
	case errs.Is(err, shared.ErrSlotConflict):
		sm.to(StateConflicted)
		a.metrics.ObserveAdmission(string(OutcomeSlotTaken))
		slog.InfoContext(ctx, "slot already booked", "slot", appt.SlotKey().String())
		return errs.Mark(err, ErrSlotTaken)
	case errs.Is(err, shared.ErrIdempotencyConflict):
		sm.to(StateRejected)
		a.metrics.ObserveAdmission(string(OutcomeIdempotencyReused))
		return errs.Mark(err, ErrIdempotencyKeyReused)
	default:
		sm.to(StateStorageFailed)
		a.metrics.ObserveAdmission(string(OutcomeStorageFailure))
		slog.ErrorContext(ctx, "failed to reserve slot",
			"slot", appt.SlotKey().String(),
			"store", string(a.store.Mode()),
			"error", err.Error())
		return errs.Mark(err, ErrStorageFailure)
	}
}

func (a *admissionUseCaseImpl) buildSummary(appt *appointment.Appointment) *shared.BookingSummary {
	customer := appt.Customer()
	services := appt.RequestedServices()
	ids := make([]string, 0, len(services))
	for _, s := range services {
		ids = append(ids, string(s))
	}

	summary := &shared.BookingSummary{
		Date:        appt.Date().String(),
		TimeSlot:    appt.TimeSlot().String(),
		SlotEnd:     a.rules.Calendar.SlotEnd(appt.TimeSlot()).String(),
		FullName:    customer.FullName(),
		Phone:       customer.Phone().String(),
		AddressLine: customer.AddressLine(),
		Governorate: string(customer.Governorate()),
		SubServices: ids,
		Notes:       customer.Notes(),
	}
	if minEGP, maxEGP, ok := a.rules.Catalog.EstimateRange(services); ok {
		summary.EstimateMinEGP = minEGP
		summary.EstimateMaxEGP = maxEGP
	}
	return summary
}

func (a *admissionUseCaseImpl) calculateRequestHash(input SubmitAppointmentInput) string {
	data, _ := json.Marshal(input)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
