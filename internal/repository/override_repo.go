package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"habittrack/internal/model"
)

// OverrideRepository manages the per-month goal and name patch layers.
type OverrideRepository struct {
	db *pgxpool.Pool
}

func NewOverrideRepository(db *pgxpool.Pool) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// UpsertGoal creates or replaces the goal override for (habit, year, month).
func (r *OverrideRepository) UpsertGoal(ctx context.Context, g *model.MonthlyGoal) error {
	query := `
        INSERT INTO monthly_goals (user_id, habit_id, year, month, goal)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, habit_id, year, month)
        DO UPDATE SET goal = EXCLUDED.goal
        RETURNING id
    `
	return r.db.QueryRow(ctx, query, g.UserID, g.HabitID, g.Year, g.Month, g.Goal).Scan(&g.ID)
}

// GoalsForMonth returns habit ID -> override goal for a user's month.
func (r *OverrideRepository) GoalsForMonth(ctx context.Context, userID, year, month int) (map[int]int, error) {
	rows, err := r.db.Query(ctx, `
        SELECT habit_id, goal FROM monthly_goals
        WHERE user_id = $1 AND year = $2 AND month = $3
    `, userID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make(map[int]int)
	for rows.Next() {
		var habitID, goal int
		if err := rows.Scan(&habitID, &goal); err != nil {
			return nil, err
		}
		goals[habitID] = goal
	}
	return goals, rows.Err()
}

// UpsertName creates or replaces the name override for (habit, year, month).
func (r *OverrideRepository) UpsertName(ctx context.Context, n *model.MonthlyHabitName) error {
	query := `
        INSERT INTO monthly_habit_names (user_id, habit_id, year, month, name)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, habit_id, year, month)
        DO UPDATE SET name = EXCLUDED.name
        RETURNING id
    `
	return r.db.QueryRow(ctx, query, n.UserID, n.HabitID, n.Year, n.Month, n.Name).Scan(&n.ID)
}

// InsertNameIfAbsent writes a name override only when the month has none.
// Existing overrides are never clobbered; this is how old names get frozen
// into history on a rename.
func (r *OverrideRepository) InsertNameIfAbsent(ctx context.Context, n *model.MonthlyHabitName) error {
	query := `
        INSERT INTO monthly_habit_names (user_id, habit_id, year, month, name)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, habit_id, year, month) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, n.UserID, n.HabitID, n.Year, n.Month, n.Name)
	return err
}

// DeleteName removes the name override for (habit, year, month).
func (r *OverrideRepository) DeleteName(ctx context.Context, userID, habitID, year, month int) error {
	_, err := r.db.Exec(ctx, `
        DELETE FROM monthly_habit_names
        WHERE user_id = $1 AND habit_id = $2 AND year = $3 AND month = $4
    `, userID, habitID, year, month)
	return err
}

// NamesForMonth returns habit ID -> override name for a user's month.
func (r *OverrideRepository) NamesForMonth(ctx context.Context, userID, year, month int) (map[int]string, error) {
	rows, err := r.db.Query(ctx, `
        SELECT habit_id, name FROM monthly_habit_names
        WHERE user_id = $1 AND year = $2 AND month = $3
    `, userID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int]string)
	for rows.Next() {
		var habitID int
		var name string
		if err := rows.Scan(&habitID, &name); err != nil {
			return nil, err
		}
		names[habitID] = name
	}
	return names, rows.Err()
}

// NameMonths returns the set of (year, month) pairs that already carry a name
// override for one habit.
func (r *OverrideRepository) NameMonths(ctx context.Context, userID, habitID int) (map[[2]int]bool, error) {
	rows, err := r.db.Query(ctx, `
        SELECT year, month FROM monthly_habit_names
        WHERE user_id = $1 AND habit_id = $2
    `, userID, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := make(map[[2]int]bool)
	for rows.Next() {
		var year, month int
		if err := rows.Scan(&year, &month); err != nil {
			return nil, err
		}
		months[[2]int{year, month}] = true
	}
	return months, rows.Err()
}
