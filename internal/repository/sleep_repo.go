package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"habittrack/internal/model"
)

type SleepRepository struct {
	db *pgxpool.Pool
}

func NewSleepRepository(db *pgxpool.Pool) *SleepRepository {
	return &SleepRepository{db: db}
}

const sleepColumns = `id, user_id, date, sleep_type, nap_index, bedtime, wake_time, duration, quality, notes, created_at`

// Upsert writes a sleep entry keyed by (user, date, type, nap index).
func (r *SleepRepository) Upsert(ctx context.Context, s *model.Sleep) error {
	query := `
        INSERT INTO sleep (user_id, date, sleep_type, nap_index, bedtime, wake_time, duration, quality, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
        ON CONFLICT (user_id, date, sleep_type, nap_index)
        DO UPDATE SET bedtime   = EXCLUDED.bedtime,
                      wake_time = EXCLUDED.wake_time,
                      duration  = EXCLUDED.duration,
                      quality   = EXCLUDED.quality,
                      notes     = EXCLUDED.notes
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query,
		s.UserID, s.Date, s.SleepType, s.NapIndex,
		s.Bedtime, s.WakeTime, s.Duration, s.Quality, s.Notes,
	).Scan(&s.ID, &s.CreatedAt)
}

// ListRange returns entries in a date-string window sorted by date.
func (r *SleepRepository) ListRange(ctx context.Context, userID int, startDate, endDate string) ([]model.Sleep, error) {
	query := `
        SELECT ` + sleepColumns + `
        FROM sleep
        WHERE user_id = $1 AND date >= $2 AND date <= $3
        ORDER BY date
    `
	return r.list(ctx, query, userID, startDate, endDate)
}

// ListNights returns night entries only for a window.
func (r *SleepRepository) ListNights(ctx context.Context, userID int, startDate, endDate string) ([]model.Sleep, error) {
	query := `
        SELECT ` + sleepColumns + `
        FROM sleep
        WHERE user_id = $1 AND date >= $2 AND date <= $3 AND sleep_type = 'night'
        ORDER BY date
    `
	return r.list(ctx, query, userID, startDate, endDate)
}

func (r *SleepRepository) list(ctx context.Context, query string, args ...any) ([]model.Sleep, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.Sleep
	for rows.Next() {
		var s model.Sleep
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Date, &s.SleepType, &s.NapIndex,
			&s.Bedtime, &s.WakeTime, &s.Duration, &s.Quality, &s.Notes, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}

// Delete removes one entry by natural key.
func (r *SleepRepository) Delete(ctx context.Context, userID int, date, sleepType string, napIndex int) error {
	_, err := r.db.Exec(ctx, `
        DELETE FROM sleep
        WHERE user_id = $1 AND date = $2 AND sleep_type = $3 AND nap_index = $4
    `, userID, date, sleepType, napIndex)
	return err
}

// CountNaps returns how many naps are recorded for a date.
func (r *SleepRepository) CountNaps(ctx context.Context, userID int, date string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM sleep
        WHERE user_id = $1 AND date = $2 AND sleep_type = 'nap'
    `, userID, date).Scan(&count)
	return count, err
}
