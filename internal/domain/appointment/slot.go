package appointment

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"
)

var slotPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// TimeSlot is the HH:mm start of a fixed-width block on the shared calendar.
type TimeSlot string

// ParseTimeSlot validates the HH:mm shape only; grid membership is a policy question.
func ParseTimeSlot(s string) (TimeSlot, error) {
	if !slotPattern.MatchString(s) {
		return "", ErrInvalidTimeSlot
	}
	return TimeSlot(s), nil
}

func (s TimeSlot) String() string { return string(s) }

func (s TimeSlot) minuteOfDay() int {
	m := slotPattern.FindStringSubmatch(string(s))
	if m == nil {
		return -1
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm
}

// Add shifts the slot start, wrapping around midnight.
func (s TimeSlot) Add(d time.Duration) TimeSlot {
	start := s.minuteOfDay()
	if start < 0 {
		return ""
	}
	total := (start + int(d/time.Minute)) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return TimeSlot(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// SlotGrid is a fixed-width, non-overlapping run of slots inside the service window.
type SlotGrid struct {
	first    TimeSlot
	count    int
	duration time.Duration
}

const (
	DefaultFirstSlot    TimeSlot      = "09:00"
	DefaultSlotCount    int           = 8
	DefaultSlotDuration time.Duration = time.Hour
)

func NewSlotGrid(first TimeSlot, count int, duration time.Duration) (SlotGrid, error) {
	if _, err := ParseTimeSlot(string(first)); err != nil {
		return SlotGrid{}, err
	}
	if count <= 0 || duration <= 0 || duration%time.Minute != 0 {
		return SlotGrid{}, ErrInvalidSlotGrid
	}
	if first.minuteOfDay()+count*int(duration/time.Minute) > 24*60 {
		return SlotGrid{}, ErrInvalidSlotGrid
	}
	return SlotGrid{first: first, count: count, duration: duration}, nil
}

// DefaultSlotGrid is 09:00 through 16:00, one hour each.
func DefaultSlotGrid() SlotGrid {
	return SlotGrid{first: DefaultFirstSlot, count: DefaultSlotCount, duration: DefaultSlotDuration}
}

func (g SlotGrid) Duration() time.Duration { return g.duration }

func (g SlotGrid) Slots() []TimeSlot {
	slots := make([]TimeSlot, 0, g.count)
	for i := range g.count {
		slots = append(slots, g.first.Add(time.Duration(i)*g.duration))
	}
	return slots
}

func (g SlotGrid) Contains(s TimeSlot) bool {
	return slices.Contains(g.Slots(), s)
}

func (g SlotGrid) End(s TimeSlot) TimeSlot {
	return s.Add(g.duration)
}

// Order returns the subset of slots that belong to the grid, in grid order and without duplicates.
func (g SlotGrid) Order(slots []TimeSlot) []TimeSlot {
	present := make(map[TimeSlot]struct{}, len(slots))
	for _, s := range slots {
		present[s] = struct{}{}
	}
	ordered := make([]TimeSlot, 0, len(present))
	for _, s := range g.Slots() {
		if _, ok := present[s]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// Free returns the grid minus the occupied slots, preserving grid order.
func (g SlotGrid) Free(occupied []TimeSlot) []TimeSlot {
	taken := make(map[TimeSlot]struct{}, len(occupied))
	for _, s := range occupied {
		taken[s] = struct{}{}
	}
	free := make([]TimeSlot, 0, g.count)
	for _, s := range g.Slots() {
		if _, ok := taken[s]; !ok {
			free = append(free, s)
		}
	}
	return free
}
