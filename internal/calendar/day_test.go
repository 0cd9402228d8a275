package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDay(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		d, err := ParseDay("2024-06-01")
		assert.NoError(t, err)
		assert.Equal(t, 2024, d.Year)
		assert.Equal(t, time.June, d.Month)
		assert.Equal(t, 1, d.Date)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDay("01/06/2024")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expected yyyy-mm-dd")
	})

	t.Run("Round trip", func(t *testing.T) {
		d, err := ParseDay("2025-12-31")
		assert.NoError(t, err)
		assert.Equal(t, "2025-12-31", d.String())
	})
}

func TestDayWeekend(t *testing.T) {
	tests := []struct {
		date    string
		weekend bool
	}{
		{"2024-06-01", true},  // Saturday
		{"2024-06-02", true},  // Sunday
		{"2024-06-03", false}, // Monday
		{"2024-06-07", false}, // Friday
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := ParseDay(tt.date)
			assert.NoError(t, err)
			assert.Equal(t, tt.weekend, d.IsWeekend())
		})
	}
}

func TestDayArithmetic(t *testing.T) {
	t.Run("Next crosses month boundary", func(t *testing.T) {
		d, _ := ParseDay("2024-01-31")
		assert.Equal(t, "2024-02-01", d.Next().String())
	})

	t.Run("AddMonths clamps through normalization", func(t *testing.T) {
		d, _ := ParseDay("2024-08-31")
		// time.AddDate normalizes Sep 31 to Oct 1.
		assert.Equal(t, "2024-10-01", d.AddMonths(1).String())
	})

	t.Run("DaysBetween is inclusive", func(t *testing.T) {
		a, _ := ParseDay("2024-06-01")
		b, _ := ParseDay("2024-06-03")
		assert.Equal(t, 3, DaysBetween(a, b))
		assert.Equal(t, 1, DaysBetween(a, a))
		assert.Equal(t, 3, DaysBetween(b, a))
	})

	t.Run("DaysBetween across spring-forward transition", func(t *testing.T) {
		// Mar 31 2024 is 23 hours long in Europe/Paris.
		a, _ := ParseDay("2024-03-30")
		b, _ := ParseDay("2024-04-01")
		assert.Equal(t, 3, DaysBetween(a, b))
	})

	t.Run("DaysBetween across fall-back transition", func(t *testing.T) {
		// Oct 27 2024 is 25 hours long in Europe/Paris.
		a, _ := ParseDay("2024-10-26")
		b, _ := ParseDay("2024-10-28")
		assert.Equal(t, 3, DaysBetween(a, b))
	})

	t.Run("OrderRange swaps descending endpoints", func(t *testing.T) {
		a, _ := ParseDay("2024-01-05")
		b, _ := ParseDay("2024-01-03")
		lo, hi := OrderRange(a, b)
		assert.Equal(t, "2024-01-03", lo.String())
		assert.Equal(t, "2024-01-05", hi.String())
	})
}

func TestOverlaps(t *testing.T) {
	day := func(s string) Day {
		d, err := ParseDay(s)
		if err != nil {
			t.Fatalf("bad day %s: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"Disjoint", "2024-06-01", "2024-06-03", "2024-06-04", "2024-06-06", false},
		{"Shared endpoint", "2024-06-01", "2024-06-03", "2024-06-03", "2024-06-05", true},
		{"Contained", "2024-06-01", "2024-06-10", "2024-06-04", "2024-06-05", true},
		{"Identical", "2024-06-01", "2024-06-03", "2024-06-01", "2024-06-03", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			assert.Equal(t, tt.want, got)
		})
	}
}
