package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habittrack/internal/model"
)

type TrackingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTrackingRepository(db *pgxpool.Pool, logger *zap.Logger) *TrackingRepository {
	return &TrackingRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes the day's completion state by natural key. Re-sending the
// same state yields the same stored row; the unique index is the only
// concurrency safety net, last write wins.
func (r *TrackingRepository) Upsert(ctx context.Context, t *model.Tracking) error {
	query := `
        INSERT INTO tracking (user_id, habit_id, date, completed, score, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (user_id, habit_id, date)
        DO UPDATE SET completed = EXCLUDED.completed, score = EXCLUDED.score
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.UserID, t.HabitID, t.Date, t.Completed, t.Score,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to upsert tracking",
			zap.Int("habit_id", t.HabitID),
			zap.String("date", t.Date),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// CompletedDatesForHabit returns the completed dates of one habit inside a
// date-string window, sorted ascending.
func (r *TrackingRepository) CompletedDatesForHabit(ctx context.Context, userID, habitID int, startDate, endDate string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
        SELECT date FROM tracking
        WHERE user_id = $1 AND habit_id = $2
          AND date >= $3 AND date <= $4
          AND completed = TRUE
        ORDER BY date
    `, userID, habitID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ListCompleted returns every completed row for the user in a window, all
// habits included.
func (r *TrackingRepository) ListCompleted(ctx context.Context, userID int, startDate, endDate string) ([]model.Tracking, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, habit_id, date, completed, score, created_at
        FROM tracking
        WHERE user_id = $1 AND date >= $2 AND date <= $3 AND completed = TRUE
        ORDER BY date
    `, userID, startDate, endDate)
	if err != nil {
		r.logger.Error("Failed to list tracking", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var trackings []model.Tracking
	for rows.Next() {
		var t model.Tracking
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.HabitID, &t.Date, &t.Completed, &t.Score, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		trackings = append(trackings, t)
	}
	return trackings, rows.Err()
}

// ScoresByDate sums completed scores per date inside a window.
func (r *TrackingRepository) ScoresByDate(ctx context.Context, userID int, startDate, endDate string) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
        SELECT date, SUM(score) FROM tracking
        WHERE user_id = $1 AND date >= $2 AND date <= $3 AND completed = TRUE
        GROUP BY date
    `, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[string]int)
	for rows.Next() {
		var date string
		var total int
		if err := rows.Scan(&date, &total); err != nil {
			return nil, err
		}
		scores[date] = total
	}
	return scores, rows.Err()
}
