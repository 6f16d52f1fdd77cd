package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habittrack/internal/util"
	"go.uber.org/zap"
)

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name        string
		dates       []string
		today       string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "empty",
			dates:       nil,
			today:       "2024-05-10",
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "runs of three and two, last run ends yesterday",
			dates:       []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-05", "2024-05-06"},
			today:       "2024-05-07",
			wantCurrent: 2,
			wantLongest: 3,
		},
		{
			name:        "same data but last run ends today",
			dates:       []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-05", "2024-05-06"},
			today:       "2024-05-06",
			wantCurrent: 2,
			wantLongest: 3,
		},
		{
			name:        "last completion two days ago breaks the current streak",
			dates:       []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-05", "2024-05-06"},
			today:       "2024-05-08",
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name:        "single day today",
			dates:       []string{"2024-05-10"},
			today:       "2024-05-10",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "fully consecutive month",
			dates:       []string{"2024-02-26", "2024-02-27", "2024-02-28", "2024-02-29"},
			today:       "2024-03-01",
			wantCurrent: 4,
			wantLongest: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStreaks(tt.dates, tt.today)
			assert.Equal(t, tt.wantCurrent, got.CurrentStreak, "current streak")
			assert.Equal(t, tt.wantLongest, got.LongestStreak, "longest streak")
		})
	}
}

func TestToggleRejectsFutureDate(t *testing.T) {
	store := newFakeTrackingStore()
	svc := NewTrackingService(store, newFakeCache(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, util.IST)
	}

	_, err := svc.Toggle(context.Background(), 1, 1, "2024-05-11", true, 5)
	assert.ErrorIs(t, err, ErrFutureDate)

	// Today itself is allowed.
	_, err = svc.Toggle(context.Background(), 1, 1, "2024-05-10", true, 5)
	assert.NoError(t, err)
}

func TestToggleFutureDateUsesISTCalendar(t *testing.T) {
	store := newFakeTrackingStore()
	svc := NewTrackingService(store, newFakeCache(), zap.NewNop())
	// 20:00 UTC on May 10 is already May 11 in IST.
	svc.now = func() time.Time {
		return time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	}

	_, err := svc.Toggle(context.Background(), 1, 1, "2024-05-11", true, 0)
	assert.NoError(t, err)
}

func TestToggleForcesZeroScoreWhenUncompleted(t *testing.T) {
	store := newFakeTrackingStore()
	svc := NewTrackingService(store, newFakeCache(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, util.IST)
	}

	tr, err := svc.Toggle(context.Background(), 1, 1, "2024-05-09", false, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Score)
}

func TestToggleIsIdempotentOnNaturalKey(t *testing.T) {
	store := newFakeTrackingStore()
	svc := NewTrackingService(store, newFakeCache(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, util.IST)
	}
	ctx := context.Background()

	first, err := svc.Toggle(ctx, 1, 1, "2024-05-09", true, 5)
	require.NoError(t, err)

	second, err := svc.Toggle(ctx, 1, 1, "2024-05-09", true, 8)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same row, not a new one")
	assert.Len(t, store.rows, 1)
	assert.Equal(t, 8, store.rows[trackKey{1, "2024-05-09"}].Score)
}

func TestToggleInvalidatesScoresCache(t *testing.T) {
	store := newFakeTrackingStore()
	cache := newFakeCache()
	svc := NewTrackingService(store, cache, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, util.IST)
	}
	ctx := context.Background()

	// Warm the cache.
	_, err := svc.Scores(ctx, 1, 2024, 5)
	require.NoError(t, err)
	assert.Contains(t, cache.values, "scores:1:2024-05")

	_, err = svc.Toggle(ctx, 1, 1, "2024-05-09", true, 5)
	require.NoError(t, err)
	assert.NotContains(t, cache.values, "scores:1:2024-05")
}

func TestScoresReadThrough(t *testing.T) {
	store := newFakeTrackingStore()
	cache := newFakeCache()
	svc := NewTrackingService(store, cache, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, util.IST)
	}
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, 1, "2024-05-08", true, 5)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 1, 2, "2024-05-08", true, 3)
	require.NoError(t, err)

	scores, err := svc.Scores(ctx, 1, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, scores["2024-05-08"])

	// Cached copy serves the second read even after the store changes
	// underneath it.
	store.rows = nil
	scores, err = svc.Scores(ctx, 1, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, scores["2024-05-08"])
}

func TestStreaksAreWindowedToMonth(t *testing.T) {
	store := newFakeTrackingStore()
	svc := NewTrackingService(store, newFakeCache(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, 5, 3, 12, 0, 0, 0, util.IST)
	}
	ctx := context.Background()

	// A run spanning the month boundary.
	for _, d := range []string{"2024-04-29", "2024-04-30", "2024-05-01", "2024-05-02", "2024-05-03"} {
		_, err := svc.Toggle(ctx, 1, 1, d, true, 0)
		require.NoError(t, err)
	}

	streaks, err := svc.Streaks(ctx, 1, 1, 2024, 5)
	require.NoError(t, err)

	// April's days are outside the window, so the run restarts on the 1st.
	assert.Equal(t, 3, streaks.LongestStreak)
	assert.Equal(t, 3, streaks.CurrentStreak)
}
