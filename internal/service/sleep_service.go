package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"habittrack/internal/model"
	"habittrack/internal/util"
)

var ErrSleepFieldsMissing = errors.New("date and duration are required")

type SleepService struct {
	sleep SleepStore
}

func NewSleepService(sleep SleepStore) *SleepService {
	return &SleepService{sleep: sleep}
}

// Month returns the month's sleep entries, naps included, sorted by date.
func (s *SleepService) Month(ctx context.Context, userID, year, month int) ([]model.Sleep, error) {
	start, end := util.MonthBounds(year, month)
	return s.sleep.ListRange(ctx, userID, start, end)
}

// Stats summarizes the month's night sleep.
func (s *SleepService) Stats(ctx context.Context, userID, year, month int) (*model.SleepStats, error) {
	start, end := util.MonthBounds(year, month)
	nights, err := s.sleep.ListNights(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return ComputeSleepStats(nights), nil
}

// ComputeSleepStats aggregates night entries: average duration and quality,
// the longest and shortest nights, and total hours. Quality averages only
// over entries that recorded one.
func ComputeSleepStats(nights []model.Sleep) *model.SleepStats {
	if len(nights) == 0 {
		return &model.SleepStats{}
	}

	totalDuration := 0
	qualitySum, qualityCount := 0, 0
	for _, n := range nights {
		totalDuration += n.Duration
		if n.Quality != nil {
			qualitySum += *n.Quality
			qualityCount++
		}
	}

	avgQuality := 0.0
	if qualityCount > 0 {
		avgQuality = math.Round(float64(qualitySum)/float64(qualityCount)*10) / 10
	}

	sorted := make([]model.Sleep, len(nights))
	copy(sorted, nights)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Duration > sorted[j].Duration })

	longest := sorted[0]
	shortest := sorted[len(sorted)-1]

	return &model.SleepStats{
		TotalNights:     len(nights),
		AvgDuration:     int(math.Round(float64(totalDuration) / float64(len(nights)))),
		AvgQuality:      avgQuality,
		MaxSleep:        &longest,
		MinSleep:        &shortest,
		TotalSleepHours: math.Round(float64(totalDuration)/60*10) / 10,
	}
}

// Upsert writes a sleep entry by its (date, type, nap index) key.
func (s *SleepService) Upsert(ctx context.Context, entry *model.Sleep) error {
	if entry.Date == "" || entry.Duration == 0 {
		return ErrSleepFieldsMissing
	}
	if entry.SleepType == "" {
		entry.SleepType = model.SleepNight
	}
	return s.sleep.Upsert(ctx, entry)
}

// Delete removes one entry.
func (s *SleepService) Delete(ctx context.Context, userID int, date, sleepType string, napIndex int) error {
	if sleepType == "" {
		sleepType = model.SleepNight
	}
	return s.sleep.Delete(ctx, userID, date, sleepType, napIndex)
}

// NextNapIndex returns the index the next nap on a date should use.
func (s *SleepService) NextNapIndex(ctx context.Context, userID int, date string) (int, error) {
	return s.sleep.CountNaps(ctx, userID, date)
}
