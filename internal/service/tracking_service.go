package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habittrack/internal/model"
	"habittrack/internal/util"
)

// ErrFutureDate is returned when a toggle targets a date after the IST
// "today".
var ErrFutureDate = errors.New("cannot track a future date")

const scoresCacheTTL = 10 * time.Minute

type TrackingService struct {
	tracking TrackingStore
	cache    Cache
	logger   *zap.Logger
	now      func() time.Time
}

func NewTrackingService(tracking TrackingStore, cache Cache, logger *zap.Logger) *TrackingService {
	return &TrackingService{
		tracking: tracking,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Toggle upserts the day's completion state for a habit. Score is forced to
// zero when not completed. Idempotent by the (user, habit, date) natural key.
func (s *TrackingService) Toggle(ctx context.Context, userID, habitID int, date string, completed bool, score int) (*model.Tracking, error) {
	if _, err := time.Parse(util.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if date > util.Today(s.now()) {
		return nil, ErrFutureDate
	}

	if !completed {
		score = 0
	}

	t := &model.Tracking{
		UserID:    userID,
		HabitID:   habitID,
		Date:      date,
		Completed: completed,
		Score:     score,
	}
	if err := s.tracking.Upsert(ctx, t); err != nil {
		return nil, err
	}

	s.cache.Del(ctx, scoresCacheKey(userID, date[:7]))
	return t, nil
}

// Streaks computes the current and longest runs of consecutive completed days
// for one habit, windowed strictly to the requested calendar month. A run
// that began in the previous month restarts at 1 on the 1st; whether that is
// intended is an open product question, so the window is reproduced as-is.
func (s *TrackingService) Streaks(ctx context.Context, userID, habitID, year, month int) (model.Streaks, error) {
	start, end := util.MonthBounds(year, month)
	dates, err := s.tracking.CompletedDatesForHabit(ctx, userID, habitID, start, end)
	if err != nil {
		return model.Streaks{}, err
	}
	return ComputeStreaks(dates, util.Today(s.now())), nil
}

// ComputeStreaks walks sorted completed dates once. The gap between
// consecutive dates extends the running streak when it is exactly one day and
// resets it otherwise. The final run counts as current only while it ends
// today or yesterday.
func ComputeStreaks(sortedDates []string, today string) model.Streaks {
	if len(sortedDates) == 0 {
		return model.Streaks{}
	}

	var longest, run int
	prev := ""
	for _, date := range sortedDates {
		if prev == "" {
			run = 1
		} else if gap, err := util.DaysBetween(prev, date); err == nil && gap == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = date
	}

	current := 0
	if gap, err := util.DaysBetween(prev, today); err == nil && (gap == 0 || gap == 1) {
		current = run
	}

	return model.Streaks{CurrentStreak: current, LongestStreak: longest}
}

// Scores returns per-date completed score sums for the month, read through
// the cache.
func (s *TrackingService) Scores(ctx context.Context, userID, year, month int) (map[string]int, error) {
	key := scoresCacheKey(userID, fmt.Sprintf("%04d-%02d", year, month))
	if cached, ok := s.cache.Get(ctx, key); ok {
		var scores map[string]int
		if err := json.Unmarshal([]byte(cached), &scores); err == nil {
			return scores, nil
		}
	}

	start, end := util.MonthBounds(year, month)
	scores, err := s.tracking.ScoresByDate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(scores); err == nil {
		s.cache.Set(ctx, key, string(encoded), scoresCacheTTL)
	}
	return scores, nil
}

// Month returns the user's completed rows for a month, all habits.
func (s *TrackingService) Month(ctx context.Context, userID, year, month int) ([]model.Tracking, error) {
	start, end := util.MonthBounds(year, month)
	return s.tracking.ListCompleted(ctx, userID, start, end)
}

func scoresCacheKey(userID int, yearMonth string) string {
	return fmt.Sprintf("scores:%d:%s", userID, yearMonth)
}
