package model

import "time"

const (
	SleepNight = "night"
	SleepNap   = "nap"
)

type Sleep struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Date      string    `json:"date"` // YYYY-MM-DD
	SleepType string    `json:"sleepType"`
	NapIndex  int       `json:"napIndex"`
	Bedtime   string    `json:"bedtime"`  // HH:MM
	WakeTime  string    `json:"wakeTime"` // HH:MM
	Duration  int       `json:"duration"` // minutes
	Quality   *int      `json:"quality"`  // 1-5
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// SleepStats summarizes a month of night sleep.
type SleepStats struct {
	TotalNights     int     `json:"totalNights"`
	AvgDuration     int     `json:"avgDuration"`
	AvgQuality      float64 `json:"avgQuality"`
	MaxSleep        *Sleep  `json:"maxSleep"`
	MinSleep        *Sleep  `json:"minSleep"`
	TotalSleepHours float64 `json:"totalSleepHours"`
}
