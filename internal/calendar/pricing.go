package calendar

import "carloc-backend/internal/domain"

// Quote is the derived price for an inclusive day range.
type Quote struct {
	WeekdayCount int   `json:"weekday_count"`
	WeekendCount int   `json:"weekend_count"`
	TotalCents   int64 `json:"total_cents"`
}

// Price classifies every day of the inclusive interval [start, end] as
// weekday or weekend (Saturday/Sunday) and totals it against the two rates.
// A single-day interval counts as exactly one day, priced by its own
// classification.
func Price(start, end Day, weekdayRateCents, weekendRateCents int64) (Quote, error) {
	if end.Before(start) {
		return Quote{}, domain.Validationf("end date %s before start date %s", end, start)
	}
	if weekdayRateCents < 0 || weekendRateCents < 0 {
		return Quote{}, domain.Validationf("negative day rate")
	}

	var q Quote
	for d := start; !d.After(end); d = d.Next() {
		if d.IsWeekend() {
			q.WeekendCount++
		} else {
			q.WeekdayCount++
		}
	}
	q.TotalCents = int64(q.WeekdayCount)*weekdayRateCents + int64(q.WeekendCount)*weekendRateCents
	return q, nil
}
