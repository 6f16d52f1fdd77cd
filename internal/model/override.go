package model

// MonthlyGoal pins a habit's goal for one month, shadowing the habit default.
type MonthlyGoal struct {
	ID      int `json:"id"`
	UserID  int `json:"userId"`
	HabitID int `json:"habitId"`
	Year    int `json:"year"`
	Month   int `json:"month"` // 1-12
	Goal    int `json:"goal"`
}

// MonthlyHabitName pins a habit's display name for one month. The override
// table is an append-only patch layer over the mutable default: renames
// freeze old names here so historical months keep their display.
type MonthlyHabitName struct {
	ID      int    `json:"id"`
	UserID  int    `json:"userId"`
	HabitID int    `json:"habitId"`
	Year    int    `json:"year"`
	Month   int    `json:"month"` // 1-12
	Name    string `json:"name"`
}
