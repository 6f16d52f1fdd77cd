package model

import "time"

// Tracking is one day's completion record for one habit. Exactly one row may
// exist per (user, habit, date).
type Tracking struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	HabitID   int       `json:"habitId"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Completed bool      `json:"completed"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

type Streaks struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}
