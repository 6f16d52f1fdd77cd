package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habittrack/internal/model"
	"habittrack/internal/util"
)

func newTestWidgetService(t *testing.T, now time.Time, habitCount int) (*WidgetService, *fakeTrackingStore) {
	t.Helper()
	habits := newFakeHabitStore()
	for i := 0; i < habitCount; i++ {
		require.NoError(t, habits.Insert(context.Background(), &model.Habit{
			UserID:    1,
			Name:      "Habit",
			CreatedAt: now.AddDate(-1, 0, 0),
		}))
	}
	tracking := newFakeTrackingStore()
	svc := NewWidgetService(habits, tracking)
	svc.now = func() time.Time { return now }
	return svc, tracking
}

func complete(t *testing.T, tracking *fakeTrackingStore, habitID int, date string) {
	t.Helper()
	require.NoError(t, tracking.Upsert(context.Background(), &model.Tracking{
		UserID: 1, HabitID: habitID, Date: date, Completed: true,
	}))
}

func TestWidgetProgressStreakUsesSeventyPercentThreshold(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, util.IST)
	// 3 habits: threshold is ceil(3*0.7) = 3.
	svc, tracking := newTestWidgetService(t, now, 3)
	ctx := context.Background()

	// Today and yesterday: all three completed. Two days ago: only two.
	for habitID := 1; habitID <= 3; habitID++ {
		complete(t, tracking, habitID, "2024-05-10")
		complete(t, tracking, habitID, "2024-05-09")
	}
	complete(t, tracking, 1, "2024-05-08")
	complete(t, tracking, 2, "2024-05-08")

	progress, err := svc.Progress(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, progress.Completed)
	assert.Equal(t, 3, progress.Total)
	assert.Equal(t, 2, progress.Streak, "two days met the threshold, the third broke it")
	require.Len(t, progress.Habits, 3)
	assert.True(t, progress.Habits[0].Completed)
}

func TestWidgetProgressNoHabits(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, util.IST)
	svc, _ := newTestWidgetService(t, now, 0)

	progress, err := svc.Progress(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, progress.Total)
	assert.Equal(t, 0, progress.Streak, "zero habits can never satisfy a threshold")
}

func TestWidgetStatsWeeklyPercentages(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, util.IST)
	svc, tracking := newTestWidgetService(t, now, 2)

	// Today both, yesterday one, before that nothing.
	complete(t, tracking, 1, "2024-05-10")
	complete(t, tracking, 2, "2024-05-10")
	complete(t, tracking, 1, "2024-05-09")

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, stats.WeeklyData, 7)
	assert.Equal(t, 100, stats.WeeklyData[6], "today")
	assert.Equal(t, 50, stats.WeeklyData[5], "yesterday")
	assert.Equal(t, 0, stats.WeeklyData[0])
	assert.Equal(t, (100+50)/7, stats.WeeklyAverage)
	assert.Equal(t, "Friday", stats.BestDay, "2024-05-10 is a Friday")
}
