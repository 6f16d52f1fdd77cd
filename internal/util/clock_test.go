package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayUsesIST(t *testing.T) {
	// 20:00 UTC is 01:30 the next day in IST.
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-11", Today(now))

	// 18:00 UTC is still 23:30 the same day.
	now = time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-10", Today(now))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2024-05-01", "2024-05-02", 1},
		{"2024-05-01", "2024-05-01", 0},
		{"2024-05-02", "2024-05-01", -1},
		{"2024-02-28", "2024-03-01", 2}, // leap year
		{"2023-02-28", "2023-03-01", 1},
		{"2024-04-30", "2024-05-01", 1},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.from, tt.to)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}

	_, err := DaysBetween("garbage", "2024-05-01")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2024, 2)
	assert.Equal(t, "2024-02-01", start)
	assert.Equal(t, "2024-02-31", end)

	// The literal -31 upper bound covers every real day lexicographically
	// without reaching the next month.
	assert.True(t, "2024-02-29" <= end)
	assert.False(t, "2024-03-01" <= end)
}

func TestMonthsBefore(t *testing.T) {
	from := time.Date(2023, 11, 15, 0, 0, 0, 0, IST)
	months := MonthsBefore(from, 2024, 2)
	assert.Equal(t, [][2]int{{2023, 11}, {2023, 12}, {2024, 1}}, months)

	// Target month equal to the creation month yields nothing.
	assert.Empty(t, MonthsBefore(time.Date(2024, 2, 1, 0, 0, 0, 0, IST), 2024, 2))
}

func TestStartOfISTDay(t *testing.T) {
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC) // May 11 in IST
	got := StartOfISTDay(now, 0)
	assert.Equal(t, "2024-05-11", got.Format(DateLayout))
	assert.Equal(t, 0, got.Hour())

	weekAgo := StartOfISTDay(now, 7)
	assert.Equal(t, "2024-05-04", weekAgo.Format(DateLayout))
}
