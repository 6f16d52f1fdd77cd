package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habittrack/internal/model"
)

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{
		db:     db,
		logger: logger,
	}
}

const habitColumns = `id, user_id, name, goal, color, display_order, created_at, deleted_at`

func (r *HabitRepository) Insert(ctx context.Context, h *model.Habit) error {
	r.logger.Debug("Inserting habit",
		zap.Int("user_id", h.UserID),
		zap.String("name", h.Name),
	)

	query := `
        INSERT INTO habits (user_id, name, goal, color, display_order, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		h.UserID,
		h.Name,
		h.Goal,
		h.Color,
		h.Order,
		h.CreatedAt,
	).Scan(&h.ID)

	if err != nil {
		r.logger.Error("Failed to insert habit", zap.Error(err))
		return err
	}
	return nil
}

// FindByID returns a habit owned by the user, deleted or not.
func (r *HabitRepository) FindByID(ctx context.Context, userID, habitID int) (*model.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND user_id = $2`
	var h model.Habit
	err := r.db.QueryRow(ctx, query, habitID, userID).Scan(
		&h.ID, &h.UserID, &h.Name, &h.Goal, &h.Color, &h.Order, &h.CreatedAt, &h.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListCurrent returns the user's non-deleted habits in display order.
func (r *HabitRepository) ListCurrent(ctx context.Context, userID int) ([]model.Habit, error) {
	query := `
        SELECT ` + habitColumns + `
        FROM habits
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY display_order
    `
	return r.list(ctx, query, userID)
}

// ListAll returns every habit the user ever created, deleted included.
// Used by the admin detail view.
func (r *HabitRepository) ListAll(ctx context.Context, userID int) ([]model.Habit, error) {
	query := `
        SELECT ` + habitColumns + `
        FROM habits
        WHERE user_id = $1
        ORDER BY display_order
    `
	return r.list(ctx, query, userID)
}

// ListForMonth returns habits visible in the month ending at endOfMonth:
// created before the month ended, and not soft-deleted before it ended.
func (r *HabitRepository) ListForMonth(ctx context.Context, userID int, endOfMonth time.Time) ([]model.Habit, error) {
	query := `
        SELECT ` + habitColumns + `
        FROM habits
        WHERE user_id = $1
          AND created_at <= $2
          AND (deleted_at IS NULL OR deleted_at > $2)
        ORDER BY display_order
    `
	return r.list(ctx, query, userID, endOfMonth)
}

func (r *HabitRepository) list(ctx context.Context, query string, args ...any) ([]model.Habit, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.Name, &h.Goal, &h.Color, &h.Order, &h.CreatedAt, &h.DeletedAt,
		); err != nil {
			r.logger.Error("Failed to scan habit", zap.Error(err))
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (r *HabitRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM habits WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// Update patches the mutable habit fields. Nil pointers leave columns alone.
func (r *HabitRepository) Update(ctx context.Context, userID, habitID int, name *string, goal *int, color *string, order *int) (*model.Habit, error) {
	query := `
        UPDATE habits
        SET name          = COALESCE($3, name),
            goal          = COALESCE($4, goal),
            color         = COALESCE($5, color),
            display_order = COALESCE($6, display_order)
        WHERE id = $1 AND user_id = $2
        RETURNING ` + habitColumns
	var h model.Habit
	err := r.db.QueryRow(ctx, query, habitID, userID, name, goal, color, order).Scan(
		&h.ID, &h.UserID, &h.Name, &h.Goal, &h.Color, &h.Order, &h.CreatedAt, &h.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// SetDefaultGoal changes the habit's default goal (current and future months
// without an override).
func (r *HabitRepository) SetDefaultGoal(ctx context.Context, habitID, goal int) error {
	_, err := r.db.Exec(ctx, `UPDATE habits SET goal = $2 WHERE id = $1`, habitID, goal)
	return err
}

// SetDefaultName changes the habit's default name.
func (r *HabitRepository) SetDefaultName(ctx context.Context, habitID int, name string) error {
	_, err := r.db.Exec(ctx, `UPDATE habits SET name = $2 WHERE id = $1`, habitID, name)
	return err
}

// SoftDelete marks the habit deleted. Tracking rows are kept; history is
// never purged.
func (r *HabitRepository) SoftDelete(ctx context.Context, userID, habitID int, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE habits SET deleted_at = $3
        WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
    `, habitID, userID, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
