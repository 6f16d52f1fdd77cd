package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"habittrack/internal/model"
)

// AdminRepository holds the aggregate queries behind the admin dashboard and
// user management screens.
type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// Counts returns the headline dashboard numbers in one round trip.
func (r *AdminRepository) Counts(ctx context.Context) (total, active, deactivated, pendingSubs, activeSubs int, err error) {
	err = r.db.QueryRow(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE is_active),
               COUNT(*) FILTER (WHERE NOT is_active),
               COUNT(*) FILTER (WHERE subscription_status = 'pending'),
               COUNT(*) FILTER (WHERE subscription_status = 'active')
        FROM users
    `).Scan(&total, &active, &deactivated, &pendingSubs, &activeSubs)
	return
}

func (r *AdminRepository) CountUsersSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *AdminRepository) CountTrackingSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tracking WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

// UserGrowthByDay returns signups per IST calendar day since the given
// instant, keyed YYYY-MM-DD. One grouped query replaces a per-day count loop.
func (r *AdminRepository) UserGrowthByDay(ctx context.Context, since time.Time) (map[string]int, error) {
	return r.growthByDay(ctx, `
        SELECT to_char((created_at + INTERVAL '330 minutes')::date, 'YYYY-MM-DD'), COUNT(*)
        FROM users
        WHERE created_at >= $1
        GROUP BY 1
    `, since)
}

// SubscriptionGrowthByDay returns admin approvals per IST calendar day for
// currently active subscriptions.
func (r *AdminRepository) SubscriptionGrowthByDay(ctx context.Context, since time.Time) (map[string]int, error) {
	return r.growthByDay(ctx, `
        SELECT to_char((subscription_date + INTERVAL '330 minutes')::date, 'YYYY-MM-DD'), COUNT(*)
        FROM users
        WHERE subscription_status = 'active' AND subscription_date >= $1
        GROUP BY 1
    `, since)
}

func (r *AdminRepository) growthByDay(ctx context.Context, query string, since time.Time) (map[string]int, error) {
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		byDay[day] = count
	}
	return byDay, rows.Err()
}

// TopUsers returns the users with the most tracking rows.
func (r *AdminRepository) TopUsers(ctx context.Context, limit int) ([]model.TopUser, error) {
	rows, err := r.db.Query(ctx, `
        SELECT u.id, u.name, u.email, u.picture, COUNT(t.id) AS tracking_count
        FROM tracking t
        JOIN users u ON u.id = t.user_id
        GROUP BY u.id, u.name, u.email, u.picture
        ORDER BY tracking_count DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []model.TopUser
	for rows.Next() {
		var t model.TopUser
		if err := rows.Scan(&t.UserID, &t.Name, &t.Email, &t.Picture, &t.TrackingCount); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

// ListUsers returns one page of users with usage counts, filtered by a
// case-insensitive name/email search and an active/deactivated status filter.
func (r *AdminRepository) ListUsers(ctx context.Context, search, status string, page, limit int) ([]model.UserWithStats, int, error) {
	where := "TRUE"
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d)", len(args), len(args))
	}
	switch status {
	case "active":
		where += " AND u.is_active"
	case "deactivated":
		where += " AND NOT u.is_active"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users u WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
        SELECT `+prefixedUserColumns("u")+`,
               (SELECT COUNT(*) FROM habits h WHERE h.user_id = u.id),
               (SELECT COUNT(*) FROM tracking t WHERE t.user_id = u.id)
        FROM users u
        WHERE %s
        ORDER BY u.created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.UserWithStats
	for rows.Next() {
		var u model.UserWithStats
		if err := rows.Scan(
			&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.DOB, &u.Gender,
			&u.IsActive, &u.SubscriptionStatus, &u.SubscriptionDate,
			&u.SubscriptionExpiry, &u.IsPaused, &u.PausedAt, &u.HasScreenshot,
			&u.CreatedAt, &u.HabitCount, &u.TrackingCount,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// CountTrackingForUser returns the user's total tracking rows.
func (r *AdminRepository) CountTrackingForUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tracking WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// ListByStatuses returns users whose subscription is in any of the given
// states, newest subscription first.
func (r *AdminRepository) ListByStatuses(ctx context.Context, statuses []string) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+prefixedUserColumns("u")+`
        FROM users u
        WHERE u.subscription_status = ANY($1)
        ORDER BY u.subscription_date DESC NULLS LAST, u.created_at DESC
    `, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func prefixedUserColumns(alias string) string {
	return alias + `.id, ` + alias + `.google_id, ` + alias + `.email, ` + alias + `.name, ` +
		alias + `.picture, ` + alias + `.dob, ` + alias + `.gender, ` + alias + `.is_active, ` +
		alias + `.subscription_status, ` + alias + `.subscription_date, ` + alias + `.subscription_expiry, ` +
		alias + `.is_paused, ` + alias + `.paused_at, ` + alias + `.payment_screenshot IS NOT NULL, ` +
		alias + `.created_at`
}
