package calendar

import (
	"sort"
	"time"

	"carloc-backend/internal/domain"
)

// DayStatus classifies a single calendar day for one vehicle.
type DayStatus int

const (
	DayFree DayStatus = iota
	DayPast
	DayBooked
)

func (s DayStatus) String() string {
	switch s {
	case DayPast:
		return "past"
	case DayBooked:
		return "booked"
	default:
		return "free"
	}
}

// Horizon bounds an availability query, inclusive on both ends.
type Horizon struct {
	From Day
	To   Day
}

// DefaultHorizon spans monthsBack before now through monthsAhead after now.
func DefaultHorizon(now time.Time, monthsBack, monthsAhead int) Horizon {
	today := DayOf(now)
	return Horizon{
		From: today.AddMonths(-monthsBack),
		To:   today.AddMonths(monthsAhead),
	}
}

func (h Horizon) Contains(d Day) bool {
	return !d.Before(h.From) && !d.After(h.To)
}

// AvailabilityIndex is the derived day-by-day projection of a vehicle's
// bookings over a horizon. It is rebuilt on every query from reservation rows
// and never cached across requests.
type AvailabilityIndex struct {
	horizon Horizon
	today   Day
	days    map[Day]DayStatus
}

// BuildIndex projects reservations onto the horizon. Cancelled reservations
// do not block days. Every day of every other reservation, pending approval
// or confirmed, is booked; days before today are past unless booked (booked
// takes precedence, both are non-selectable). An empty reservation list is a
// valid input meaning no bookings.
func BuildIndex(now time.Time, horizon Horizon, reservations []domain.Reservation) (*AvailabilityIndex, error) {
	idx := &AvailabilityIndex{
		horizon: horizon,
		today:   DayOf(now),
		days:    make(map[Day]DayStatus, DaysBetween(horizon.From, horizon.To)),
	}

	for _, r := range reservations {
		if r.Status == domain.ReservationStatusCancelled {
			continue
		}
		start, err := ParseDay(r.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := ParseDay(r.EndDate)
		if err != nil {
			return nil, err
		}
		start, end = OrderRange(start, end)
		for d := start; !d.After(end); d = d.Next() {
			if horizon.Contains(d) {
				idx.days[d] = DayBooked
			}
		}
	}

	for d := horizon.From; !d.After(horizon.To) && d.Before(idx.today); d = d.Next() {
		if idx.days[d] != DayBooked {
			idx.days[d] = DayPast
		}
	}

	return idx, nil
}

// Status returns the classification of a day. Days outside the horizon are
// reported as past: they are never selectable.
func (idx *AvailabilityIndex) Status(d Day) DayStatus {
	if !idx.horizon.Contains(d) {
		return DayPast
	}
	return idx.days[d]
}

// Selectable reports whether a day may participate in a selection range.
func (idx *AvailabilityIndex) Selectable(d Day) bool {
	return idx.Status(d) == DayFree
}

// BookedDays returns the booked days within the horizon in ascending order.
func (idx *AvailabilityIndex) BookedDays() []Day {
	out := make([]Day, 0, len(idx.days))
	for d, st := range idx.days {
		if st == DayBooked {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// FirstBlocked returns the first non-free day in the inclusive range, if any.
func (idx *AvailabilityIndex) FirstBlocked(start, end Day) (Day, bool) {
	start, end = OrderRange(start, end)
	for d := start; !d.After(end); d = d.Next() {
		if !idx.Selectable(d) {
			return d, true
		}
	}
	return Day{}, false
}

func (idx *AvailabilityIndex) Horizon() Horizon { return idx.horizon }
