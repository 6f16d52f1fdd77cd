package service

import (
	"context"
	"math"
	"time"

	"habittrack/internal/util"
)

// WidgetService backs the home-screen widgets with small precomputed views.
type WidgetService struct {
	habits   HabitStore
	tracking TrackingStore
	now      func() time.Time
}

func NewWidgetService(habits HabitStore, tracking TrackingStore) *WidgetService {
	return &WidgetService{
		habits:   habits,
		tracking: tracking,
		now:      time.Now,
	}
}

type WidgetHabit struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type WidgetProgress struct {
	Completed   int           `json:"completed"`
	Total       int           `json:"total"`
	Streak      int           `json:"streak"`
	Habits      []WidgetHabit `json:"habits"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

type WidgetStats struct {
	WeeklyData    []int  `json:"weeklyData"`
	WeeklyAverage int    `json:"weeklyAverage"`
	BestDay       string `json:"bestDay"`
}

// Progress returns today's completion picture plus a simplified streak:
// consecutive days, counted back from today over at most 30, where at least
// 70% of the user's habits were completed.
func (s *WidgetService) Progress(ctx context.Context, userID int) (*WidgetProgress, error) {
	habits, err := s.habits.ListCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := util.Today(now)
	windowStart := util.Today(now.AddDate(0, 0, -29))

	completedByDate, err := s.completedByDate(ctx, userID, windowStart, today)
	if err != nil {
		return nil, err
	}

	todaySet := completedByDate[today]
	completed := 0
	widgetHabits := make([]WidgetHabit, 0, len(habits))
	for _, h := range habits {
		done := todaySet[h.ID]
		if done {
			completed++
		}
		widgetHabits = append(widgetHabits, WidgetHabit{Name: h.Name, Completed: done})
	}

	streak := 0
	threshold := int(math.Ceil(float64(len(habits)) * 0.7))
	if threshold > 0 {
		for i := 0; i < 30; i++ {
			day := util.Today(now.AddDate(0, 0, -i))
			if len(completedByDate[day]) >= threshold {
				streak++
			} else {
				break
			}
		}
	}

	return &WidgetProgress{
		Completed:   completed,
		Total:       len(habits),
		Streak:      streak,
		Habits:      widgetHabits,
		LastUpdated: now,
	}, nil
}

// Stats returns the last seven days as completion percentages.
func (s *WidgetService) Stats(ctx context.Context, userID int) (*WidgetStats, error) {
	habits, err := s.habits.ListCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := len(habits)

	now := s.now()
	today := util.Today(now)
	windowStart := util.Today(now.AddDate(0, 0, -6))

	completedByDate, err := s.completedByDate(ctx, userID, windowStart, today)
	if err != nil {
		return nil, err
	}

	weekly := make([]int, 0, 7)
	sum, best, bestDay := 0, -1, ""
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dateStr := util.Today(day)

		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(len(completedByDate[dateStr])) / float64(total) * 100))
		}
		weekly = append(weekly, pct)
		sum += pct
		if pct > best {
			best = pct
			bestDay = day.In(util.IST).Weekday().String()
		}
	}

	return &WidgetStats{
		WeeklyData:    weekly,
		WeeklyAverage: sum / 7,
		BestDay:       bestDay,
	}, nil
}

func (s *WidgetService) completedByDate(ctx context.Context, userID int, startDate, endDate string) (map[string]map[int]bool, error) {
	rows, err := s.tracking.ListCompleted(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]map[int]bool)
	for _, t := range rows {
		if byDate[t.Date] == nil {
			byDate[t.Date] = make(map[int]bool)
		}
		byDate[t.Date][t.HabitID] = true
	}
	return byDate, nil
}
