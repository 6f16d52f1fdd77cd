package model

import "time"

type Habit struct {
	ID        int        `json:"id"`
	UserID    int        `json:"userId"`
	Name      string     `json:"name"`
	Goal      int        `json:"goal"`
	Color     string     `json:"color"`
	Order     int        `json:"order"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// MonthHabit is a habit as it appeared in a given month: name and goal are
// the per-month override values when one exists, the habit defaults
// otherwise.
type MonthHabit struct {
	Habit
	OriginalName string `json:"originalName"`
}
