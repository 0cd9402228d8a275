package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	day := func(s string) Day {
		d, err := ParseDay(s)
		if err != nil {
			t.Fatalf("bad day %s: %v", s, err)
		}
		return d
	}

	t.Run("Weekend and weekday mix", func(t *testing.T) {
		// Sat + Sun at 80, Mon at 50.
		q, err := Price(day("2024-06-01"), day("2024-06-03"), 50, 80)
		assert.NoError(t, err)
		assert.Equal(t, 1, q.WeekdayCount)
		assert.Equal(t, 2, q.WeekendCount)
		assert.Equal(t, int64(210), q.TotalCents)
	})

	t.Run("Single weekday", func(t *testing.T) {
		// 2024-06-04 is a Tuesday.
		q, err := Price(day("2024-06-04"), day("2024-06-04"), 40, 70)
		assert.NoError(t, err)
		assert.Equal(t, 1, q.WeekdayCount)
		assert.Equal(t, 0, q.WeekendCount)
		assert.Equal(t, int64(40), q.TotalCents)
	})

	t.Run("Single weekend day", func(t *testing.T) {
		q, err := Price(day("2024-06-02"), day("2024-06-02"), 40, 70)
		assert.NoError(t, err)
		assert.Equal(t, int64(70), q.TotalCents)
	})

	t.Run("Full week", func(t *testing.T) {
		// Mon..Sun: 5 weekdays, 2 weekend days.
		q, err := Price(day("2024-06-03"), day("2024-06-09"), 100, 150)
		assert.NoError(t, err)
		assert.Equal(t, 5, q.WeekdayCount)
		assert.Equal(t, 2, q.WeekendCount)
		assert.Equal(t, int64(800), q.TotalCents)
	})

	t.Run("End before start rejected", func(t *testing.T) {
		_, err := Price(day("2024-06-03"), day("2024-06-01"), 50, 80)
		assert.Error(t, err)
	})

	t.Run("Negative rate rejected", func(t *testing.T) {
		_, err := Price(day("2024-06-01"), day("2024-06-01"), -1, 80)
		assert.Error(t, err)
	})
}
