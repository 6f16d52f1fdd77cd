package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"habittrack/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
    id, google_id, email, name, picture, dob, gender, is_active,
    subscription_status, subscription_date, subscription_expiry,
    is_paused, paused_at, payment_screenshot IS NOT NULL, created_at
`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.DOB, &u.Gender,
		&u.IsActive, &u.SubscriptionStatus, &u.SubscriptionDate,
		&u.SubscriptionExpiry, &u.IsPaused, &u.PausedAt, &u.HasScreenshot,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user from a verified Google identity.
func (r *UserRepository) CreateUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (google_id, email, name, picture, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, u.GoogleID, u.Email, u.Name, u.Picture).
		Scan(&u.ID, &u.CreatedAt)
}

// FindByGoogleID returns the user owning a Google subject ID.
func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, googleID))
}

// FindByID returns a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// UpdateProfile updates the user-editable fields. Nil pointers leave the
// column untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, name *string, dob *time.Time, gender *string) (*model.User, error) {
	query := `
        UPDATE users
        SET name   = COALESCE($2, name),
            dob    = COALESCE($3, dob),
            gender = COALESCE($4, gender)
        WHERE id = $1
        RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, name, dob, gender))
}

// SetPaymentPending stores the compressed screenshot and moves the user to
// the pending state in one statement.
func (r *UserRepository) SetPaymentPending(ctx context.Context, id int, screenshot []byte) (*model.User, error) {
	query := `
        UPDATE users
        SET payment_screenshot = $2, subscription_status = 'pending'
        WHERE id = $1
        RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, screenshot))
}

// Screenshot returns the stored payment screenshot bytes.
func (r *UserRepository) Screenshot(ctx context.Context, id int) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT payment_screenshot FROM users WHERE id = $1`, id).Scan(&data)
	return data, err
}

// Activate approves a subscription: active status, fresh dates, screenshot
// dropped.
func (r *UserRepository) Activate(ctx context.Context, id int, date, expiry time.Time) (*model.User, error) {
	query := `
        UPDATE users
        SET subscription_status = 'active',
            subscription_date   = $2,
            subscription_expiry = $3,
            payment_screenshot  = NULL
        WHERE id = $1
        RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, date, expiry))
}

// ClearSubscription rejects a submission: back to none, screenshot dropped.
func (r *UserRepository) ClearSubscription(ctx context.Context, id int) (*model.User, error) {
	query := `
        UPDATE users
        SET subscription_status = 'none', payment_screenshot = NULL
        WHERE id = $1
        RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// SetExpired flips a single user to the expired state.
func (r *UserRepository) SetExpired(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET subscription_status = 'expired' WHERE id = $1`, id)
	return err
}

// ExpireOverdue flips every active, unpaused subscription whose expiry has
// passed. Idempotent; used by the request path's reconcile and the worker
// sweep.
func (r *UserRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE users
        SET subscription_status = 'expired'
        WHERE subscription_status = 'active'
          AND is_paused = FALSE
          AND subscription_expiry IS NOT NULL
          AND subscription_expiry < $1
    `, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Pause freezes an active subscription's countdown.
func (r *UserRepository) Pause(ctx context.Context, id int, at time.Time) (*model.User, error) {
	query := `
        UPDATE users
        SET is_paused = TRUE, paused_at = $2
        WHERE id = $1
        RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, at))
}

// Resume unfreezes a paused subscription, shifting expiry to newExpiry when
// one was computed.
func (r *UserRepository) Resume(ctx context.Context, id int, newExpiry *time.Time) (*model.User, error) {
	query := `
        UPDATE users
        SET is_paused = FALSE,
            paused_at = NULL,
            subscription_expiry = COALESCE($2, subscription_expiry)
        WHERE id = $1
        RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, newExpiry))
}

// ToggleActive flips the account's active flag and returns the new value.
func (r *UserRepository) ToggleActive(ctx context.Context, id int) (*model.User, error) {
	query := `
        UPDATE users
        SET is_active = NOT is_active
        WHERE id = $1
        RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// Delete removes the user; owned rows cascade.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
