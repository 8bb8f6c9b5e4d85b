package appointment

import (
	"slices"
	"time"

	"exoterior-booking/internal/pkg/clock"
)

const DefaultDaysAhead = 60

// DefaultOpenings are the campaign-start days before which the calendar stays locked in their year.
func DefaultOpenings() []Date {
	return []Date{
		NewDate(2025, time.February, 25),
		NewDate(2026, time.February, 25),
	}
}

// CalendarPolicy decides which dates and slots are bookable. All date math runs
// in one canonical location, never in the booker's zone.
type CalendarPolicy struct {
	clock     clock.Clock
	loc       *time.Location
	daysAhead int
	openings  []Date
	grid      SlotGrid
}

type PolicyOption func(*CalendarPolicy)

func WithDaysAhead(days int) PolicyOption {
	return func(p *CalendarPolicy) {
		if days >= 0 {
			p.daysAhead = days
		}
	}
}

func WithOpenings(openings ...Date) PolicyOption {
	return func(p *CalendarPolicy) {
		p.openings = sortedOpenings(openings)
	}
}

func WithSlotGrid(grid SlotGrid) PolicyOption {
	return func(p *CalendarPolicy) {
		p.grid = grid
	}
}

func NewCalendarPolicy(c clock.Clock, loc *time.Location, opts ...PolicyOption) *CalendarPolicy {
	if loc == nil {
		loc = time.UTC
	}
	p := &CalendarPolicy{
		clock:     c,
		loc:       loc,
		daysAhead: DefaultDaysAhead,
		openings:  DefaultOpenings(),
		grid:      DefaultSlotGrid(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func sortedOpenings(openings []Date) []Date {
	out := make([]Date, 0, len(openings))
	for _, o := range openings {
		if !o.IsZero() {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b Date) int { return a.Time().Compare(b.Time()) })
	return out
}

func (p *CalendarPolicy) Location() *time.Location { return p.loc }
func (p *CalendarPolicy) DaysAhead() int           { return p.daysAhead }
func (p *CalendarPolicy) Grid() SlotGrid           { return p.grid }

func (p *CalendarPolicy) Today() Date {
	return DateIn(p.clock.Now(), p.loc)
}

func (p *CalendarPolicy) MinBookableDate() Date {
	return p.minBookableOn(p.Today())
}

// minBookableOn: before the first opening the first opening wins; inside a year
// that has an opening, days before it resolve to the opening; otherwise today.
func (p *CalendarPolicy) minBookableOn(today Date) Date {
	if len(p.openings) == 0 {
		return today
	}
	if today.Before(p.openings[0]) {
		return p.openings[0]
	}
	for _, opening := range p.openings {
		if opening.Year() == today.Year() && today.Before(opening) {
			return opening
		}
	}
	return today
}

func (p *CalendarPolicy) MaxBookableDate() Date {
	return p.MinBookableDate().AddDays(p.daysAhead)
}

func (p *CalendarPolicy) TimeSlots() []TimeSlot {
	return p.grid.Slots()
}

func (p *CalendarPolicy) SlotEnd(s TimeSlot) TimeSlot {
	return p.grid.End(s)
}

func (p *CalendarPolicy) IsValidDate(d Date) bool {
	return p.Window().Contains(d)
}

func (p *CalendarPolicy) IsValidSlot(s TimeSlot) bool {
	return p.grid.Contains(s)
}

// Window reads the clock once so min and max stay consistent across midnight.
func (p *CalendarPolicy) Window() BookingWindow {
	minDate := p.MinBookableDate()
	return BookingWindow{
		Min:   minDate,
		Max:   minDate.AddDays(p.daysAhead),
		Slots: p.grid.Slots(),
	}
}

type BookingWindow struct {
	Min   Date
	Max   Date
	Slots []TimeSlot
}

// Contains uses inclusive bounds.
func (w BookingWindow) Contains(d Date) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(w.Min) && !d.After(w.Max)
}
