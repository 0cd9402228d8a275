// Package calendar implements the booking availability engine: calendar-day
// arithmetic, the availability index, the range-selection state machine and
// the weekday/weekend pricing rule.
//
// All day-boundary computations use one explicit reference timezone
// (Europe/Paris). Instants from other layers are converted at the boundary;
// nothing in this package reads ambient local time.
package calendar

import (
	"time"

	"carloc-backend/internal/domain"
)

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// location is the fixed reference timezone for day boundaries.
var location = mustLoadLocation("Europe/Paris")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Day is a calendar date at day granularity in the reference timezone.
// The zero value is not a valid day; construct through NewDay, ParseDay or
// DayOf.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

func NewDay(year int, month time.Month, date int) Day {
	// Normalize through time.Date so Feb 30 etc. roll over consistently.
	return DayOf(time.Date(year, month, date, 12, 0, 0, 0, location))
}

// DayOf truncates an instant to its calendar day in the reference timezone.
func DayOf(t time.Time) Day {
	t = t.In(location)
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// ParseDay parses a yyyy-mm-dd string.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(DayFormat, s, location)
	if err != nil {
		return Day{}, domain.Validationf("invalid date %q, expected yyyy-mm-dd", s)
	}
	return DayOf(t), nil
}

// time returns noon of the day in the reference timezone. Noon keeps
// arithmetic clear of DST transitions at midnight.
func (d Day) time() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 12, 0, 0, 0, location)
}

func (d Day) String() string {
	return d.time().Format(DayFormat)
}

func (d Day) Weekday() time.Weekday {
	return d.time().Weekday()
}

// IsWeekend reports whether the day is a Saturday or Sunday. This is a fixed
// business rule, not locale-dependent.
func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Day) Next() Day {
	return DayOf(d.time().AddDate(0, 0, 1))
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.time().AddDate(0, 0, n))
}

func (d Day) AddMonths(n int) Day {
	return DayOf(d.time().AddDate(0, n, 0))
}

func (d Day) Before(other Day) bool {
	return d.time().Before(other.time())
}

func (d Day) After(other Day) bool {
	return other.Before(d)
}

func (d Day) Equal(other Day) bool {
	return d == other
}

// DaysBetween returns the number of days in the inclusive interval [a, b].
// The difference is taken on UTC midnights so days shortened or stretched by
// a DST transition in the reference timezone still count as one day.
func DaysBetween(a, b Day) int {
	if b.Before(a) {
		a, b = b, a
	}
	au := time.Date(a.Year, a.Month, a.Date, 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year, b.Month, b.Date, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours()/24) + 1
}

// OrderRange returns the endpoints in ascending order.
func OrderRange(a, b Day) (lo, hi Day) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// Overlaps reports whether the inclusive day-ranges [aStart,aEnd] and
// [bStart,bEnd] share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd Day) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
