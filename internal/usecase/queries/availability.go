package queries

//go:generate mockgen -destination=../../../tests/mock/queries/queries.go -package=queriesmock exoterior-booking/internal/usecase/queries AvailabilityQueries,CatalogQueries,StatusQueries

import (
	"context"
	"log/slog"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/pkg/metrics"
	"exoterior-booking/internal/pkg/telemetry"
	"exoterior-booking/internal/usecase/shared"

	"go.opentelemetry.io/otel/attribute"
)

// AvailabilityQueries is advisory only. Admission re-validates and the store has the final word,
// so every read degrades to "nothing occupied" instead of failing.
type AvailabilityQueries interface {
	TakenSlots(ctx context.Context, rawDate string) []appointment.TimeSlot
	AvailableSlots(ctx context.Context, date appointment.Date) []appointment.TimeSlot
	Window(ctx context.Context) appointment.BookingWindow
	Calendar(ctx context.Context) CalendarView
}

type SlotRange struct {
	Start appointment.TimeSlot
	End   appointment.TimeSlot
}

// CalendarView is what a date picker needs to bound its input.
type CalendarView struct {
	Window    appointment.BookingWindow
	DaysAhead int
	TimeZone  string
	Slots     []SlotRange
}

type availabilityQueriesImpl struct {
	store   shared.BookingStore
	policy  *appointment.CalendarPolicy
	metrics *metrics.Metrics
}

func NewAvailabilityQueries(store shared.BookingStore, policy *appointment.CalendarPolicy, m *metrics.Metrics) AvailabilityQueries {
	return &availabilityQueriesImpl{
		store:   store,
		policy:  policy,
		metrics: m,
	}
}

// TakenSlots answers any well-formed date, inside the window or not.
func (q *availabilityQueriesImpl) TakenSlots(ctx context.Context, rawDate string) []appointment.TimeSlot {
	ctx, span := telemetry.Tracer().Start(ctx, "availability.TakenSlots")
	defer span.End()
	span.SetAttributes(attribute.String("booking.date", rawDate))

	date, err := appointment.ParseDate(rawDate)
	if err != nil {
		q.metrics.ObserveAvailability("invalid_date")
		return []appointment.TimeSlot{}
	}

	return q.occupied(ctx, date)
}

func (q *availabilityQueriesImpl) AvailableSlots(ctx context.Context, date appointment.Date) []appointment.TimeSlot {
	ctx, span := telemetry.Tracer().Start(ctx, "availability.AvailableSlots")
	defer span.End()
	span.SetAttributes(attribute.String("booking.date", date.String()))

	if !q.policy.IsValidDate(date) {
		q.metrics.ObserveAvailability("outside_window")
		return []appointment.TimeSlot{}
	}

	return q.policy.Grid().Free(q.occupied(ctx, date))
}

func (q *availabilityQueriesImpl) Window(_ context.Context) appointment.BookingWindow {
	return q.policy.Window()
}

func (q *availabilityQueriesImpl) Calendar(ctx context.Context) CalendarView {
	w := q.Window(ctx)
	slots := make([]SlotRange, 0, len(w.Slots))
	for _, s := range w.Slots {
		slots = append(slots, SlotRange{Start: s, End: q.policy.SlotEnd(s)})
	}
	return CalendarView{
		Window:    w,
		DaysAhead: q.policy.DaysAhead(),
		TimeZone:  q.policy.Location().String(),
		Slots:     slots,
	}
}

func (q *availabilityQueriesImpl) occupied(ctx context.Context, date appointment.Date) []appointment.TimeSlot {
	slots, err := q.store.ListOccupiedSlots(ctx, date)
	if err != nil {
		slog.WarnContext(ctx, "availability lookup failed, reporting no occupied slots",
			"date", date.String(),
			"store", string(q.store.Mode()),
			"error", err.Error())
		q.metrics.ObserveAvailability("degraded")
		return []appointment.TimeSlot{}
	}
	q.metrics.ObserveAvailability("ok")
	if slots == nil {
		return []appointment.TimeSlot{}
	}
	return slots
}
