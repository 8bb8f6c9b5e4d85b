package client

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"exoterior-booking/internal/domain/appointment"
	reqdto "exoterior-booking/internal/handler/dto/request"
	"exoterior-booking/internal/handler/validation"
	"exoterior-booking/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseConfirmed
)

var (
	ErrNoDateSelected  = errs.New("select a date first")
	ErrDateUnavailable = errs.New("date is outside the booking window")
	ErrSlotUnknown     = errs.New("not a bookable time slot")
	ErrSlotOccupied    = errs.New("time slot is already booked")
	ErrIncompleteDraft = errs.New("booking draft is incomplete")
	ErrWrongPhase      = errs.New("workflow is not accepting edits")
)

// BookingDraft is the form state. Tags are checked locally before anything is sent.
type BookingDraft struct {
	Date        string   `validate:"required,datestr"`
	TimeSlot    string   `validate:"required,hhmm"`
	FullName    string   `validate:"required,notblank"`
	Phone       string   `validate:"required"`
	AddressLine string
	Governorate string
	SubServices []string `validate:"min=1,dive,notblank"`
	Notes       string
}

// Details are the fields the booker types in.
type Details struct {
	FullName    string
	Phone       string
	AddressLine string
	Governorate string
	SubServices []string
	Notes       string
}

type DayView struct {
	Date     appointment.Date
	Free     []appointment.TimeSlot
	Occupied []appointment.TimeSlot
}

type Confirmation struct {
	ID       string
	Date     appointment.Date
	TimeSlot appointment.TimeSlot
	Replayed bool
}

// Workflow drives one booker's form. It is not safe for concurrent use.
type Workflow struct {
	api      BookingAPI
	policy   *appointment.CalendarPolicy
	catalog  *appointment.Catalog
	validate *validator.Validate

	phase    Phase
	draft    BookingDraft
	occupied map[string][]appointment.TimeSlot

	attemptKey    *uuid.UUID
	outcomeUnsure bool
	lastMessage   string
	confirmation  *Confirmation
}

func NewWorkflow(api BookingAPI, policy *appointment.CalendarPolicy, catalog *appointment.Catalog) *Workflow {
	return &Workflow{
		api:      api,
		policy:   policy,
		catalog:  catalog,
		validate: validation.New(),
		phase:    PhaseEditing,
		occupied: make(map[string][]appointment.TimeSlot),
	}
}

func (w *Workflow) Phase() Phase                { return w.phase }
func (w *Workflow) Draft() BookingDraft         { return w.draft }
func (w *Workflow) LastMessage() string         { return w.lastMessage }
func (w *Workflow) Confirmation() *Confirmation { return w.confirmation }

// SelectDate clears the slot when the date changes and loads what is already booked.
// A failed lookup degrades to nothing occupied; admission still has the final word.
func (w *Workflow) SelectDate(ctx context.Context, date appointment.Date) (*DayView, error) {
	if w.phase != PhaseEditing {
		return nil, ErrWrongPhase
	}
	if !w.policy.IsValidDate(date) {
		return nil, errs.Wrapf(ErrDateUnavailable, "date %s", date.String())
	}

	if w.draft.Date != date.String() {
		w.draft.Date = date.String()
		w.draft.TimeSlot = ""
		w.draftChanged()
	}

	occupied, err := w.api.TakenSlots(ctx, date)
	if err != nil {
		slog.WarnContext(ctx, "could not load taken slots", "date", date.String(), "error", err.Error())
		occupied = w.occupied[date.String()]
	} else {
		w.occupied[date.String()] = occupied
	}

	return w.dayView(date), nil
}

func (w *Workflow) ClearDate() {
	w.draft.Date = ""
	w.draft.TimeSlot = ""
	w.draftChanged()
}

func (w *Workflow) SelectSlot(slot appointment.TimeSlot) error {
	if w.phase != PhaseEditing {
		return ErrWrongPhase
	}
	if w.draft.Date == "" {
		return ErrNoDateSelected
	}
	if !w.policy.IsValidSlot(slot) {
		return errs.Wrapf(ErrSlotUnknown, "slot %s", slot)
	}
	if slices.Contains(w.occupied[w.draft.Date], slot) {
		return errs.Wrapf(ErrSlotOccupied, "slot %s", slot)
	}

	if w.draft.TimeSlot != slot.String() {
		w.draft.TimeSlot = slot.String()
		w.draftChanged()
	}
	return nil
}

func (w *Workflow) SetDetails(d Details) error {
	if w.phase != PhaseEditing {
		return ErrWrongPhase
	}
	w.draft.FullName = d.FullName
	w.draft.Phone = d.Phone
	w.draft.AddressLine = d.AddressLine
	w.draft.Governorate = d.Governorate
	w.draft.SubServices = slices.Clone(d.SubServices)
	w.draft.Notes = d.Notes
	w.draftChanged()
	return nil
}

// Estimate sums the catalog ranges of the selected services, in EGP.
func (w *Workflow) Estimate() (minEGP, maxEGP int, ok bool) {
	ids := make([]appointment.ServiceID, 0, len(w.draft.SubServices))
	for _, s := range w.draft.SubServices {
		ids = append(ids, appointment.ServiceID(strings.TrimSpace(s)))
	}
	return w.catalog.EstimateRange(ids)
}

// Submit re-checks availability before booking and never picks another slot on its own.
// A returned error means the outcome is unknown and the draft is kept for a retry.
func (w *Workflow) Submit(ctx context.Context) (Outcome, error) {
	if w.phase != PhaseEditing {
		return "", ErrWrongPhase
	}
	if err := w.validate.Struct(w.draft); err != nil {
		return "", errs.Mark(err, ErrIncompleteDraft)
	}

	date := appointment.MustParseDate(w.draft.Date)
	slot := appointment.TimeSlot(w.draft.TimeSlot)
	req, err := w.request()
	if err != nil {
		return "", err
	}

	w.phase = PhaseSubmitting
	defer func() {
		if w.phase == PhaseSubmitting {
			w.phase = PhaseEditing
		}
	}()

	occupied, err := w.api.TakenSlots(ctx, date)
	if err == nil {
		w.occupied[date.String()] = occupied
		// After an unknown outcome the slot may be occupied by this very booking;
		// the idempotency key lets the server tell which.
		if slices.Contains(occupied, slot) && !w.outcomeUnsure {
			w.slotLost(slot)
			return OutcomeSlotTaken, nil
		}
	} else {
		slog.WarnContext(ctx, "availability re-check failed, submitting anyway", "error", err.Error())
	}

	if w.attemptKey == nil {
		key := uuid.New()
		w.attemptKey = &key
	}

	result, err := w.api.Submit(ctx, req, w.attemptKey)
	if err != nil {
		w.outcomeUnsure = true
		w.lastMessage = ""
		return "", errs.Wrap(err, "booking outcome unknown")
	}
	w.outcomeUnsure = false
	w.lastMessage = result.Message

	switch result.Outcome {
	case OutcomeReserved:
		w.confirmation = &Confirmation{ID: result.ID, Date: date, TimeSlot: slot, Replayed: result.Replayed}
		w.draft = BookingDraft{}
		w.attemptKey = nil
		w.phase = PhaseConfirmed
	case OutcomeSlotTaken:
		w.slotLost(slot)
	}
	return result.Outcome, nil
}

// Reset starts a new booking after a confirmation.
func (w *Workflow) Reset() {
	w.phase = PhaseEditing
	w.draft = BookingDraft{}
	w.confirmation = nil
	w.lastMessage = ""
	w.draftChanged()
}

func (w *Workflow) slotLost(slot appointment.TimeSlot) {
	day := w.draft.Date
	if !slices.Contains(w.occupied[day], slot) {
		w.occupied[day] = w.policy.Grid().Order(append(w.occupied[day], slot))
	}
	w.draft.TimeSlot = ""
	w.draftChanged()
}

// draftChanged drops the attempt key: a different payload under the old key would be rejected.
func (w *Workflow) draftChanged() {
	w.attemptKey = nil
	w.outcomeUnsure = false
}

func (w *Workflow) dayView(date appointment.Date) *DayView {
	occupied := w.policy.Grid().Order(w.occupied[date.String()])
	return &DayView{
		Date:     date,
		Free:     w.policy.Grid().Free(occupied),
		Occupied: occupied,
	}
}

func (w *Workflow) request() (reqdto.SubmitAppointmentRequest, error) {
	var req reqdto.SubmitAppointmentRequest
	if err := copier.Copy(&req, &w.draft); err != nil {
		return reqdto.SubmitAppointmentRequest{}, errs.Wrap(err, "build booking request")
	}
	address := w.draft.AddressLine
	req.AddressLine = &address
	return req, nil
}
