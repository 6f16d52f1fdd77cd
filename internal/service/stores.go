package service

import (
	"context"
	"time"

	"habittrack/internal/model"
)

// Store interfaces consumed by the services. The repository package provides
// the pgx-backed implementations; tests substitute in-memory fakes.

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	UpdateProfile(ctx context.Context, id int, name *string, dob *time.Time, gender *string) (*model.User, error)
	SetPaymentPending(ctx context.Context, id int, screenshot []byte) (*model.User, error)
	Screenshot(ctx context.Context, id int) ([]byte, error)
	Activate(ctx context.Context, id int, date, expiry time.Time) (*model.User, error)
	ClearSubscription(ctx context.Context, id int) (*model.User, error)
	SetExpired(ctx context.Context, id int) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	Pause(ctx context.Context, id int, at time.Time) (*model.User, error)
	Resume(ctx context.Context, id int, newExpiry *time.Time) (*model.User, error)
	ToggleActive(ctx context.Context, id int) (*model.User, error)
	Delete(ctx context.Context, id int) error
}

type HabitStore interface {
	Insert(ctx context.Context, h *model.Habit) error
	FindByID(ctx context.Context, userID, habitID int) (*model.Habit, error)
	ListCurrent(ctx context.Context, userID int) ([]model.Habit, error)
	ListAll(ctx context.Context, userID int) ([]model.Habit, error)
	ListForMonth(ctx context.Context, userID int, endOfMonth time.Time) ([]model.Habit, error)
	CountByUser(ctx context.Context, userID int) (int, error)
	Update(ctx context.Context, userID, habitID int, name *string, goal *int, color *string, order *int) (*model.Habit, error)
	SetDefaultGoal(ctx context.Context, habitID, goal int) error
	SetDefaultName(ctx context.Context, habitID int, name string) error
	SoftDelete(ctx context.Context, userID, habitID int, at time.Time) (bool, error)
}

type OverrideStore interface {
	UpsertGoal(ctx context.Context, g *model.MonthlyGoal) error
	GoalsForMonth(ctx context.Context, userID, year, month int) (map[int]int, error)
	UpsertName(ctx context.Context, n *model.MonthlyHabitName) error
	InsertNameIfAbsent(ctx context.Context, n *model.MonthlyHabitName) error
	DeleteName(ctx context.Context, userID, habitID, year, month int) error
	NamesForMonth(ctx context.Context, userID, year, month int) (map[int]string, error)
	NameMonths(ctx context.Context, userID, habitID int) (map[[2]int]bool, error)
}

type TrackingStore interface {
	Upsert(ctx context.Context, t *model.Tracking) error
	CompletedDatesForHabit(ctx context.Context, userID, habitID int, startDate, endDate string) ([]string, error)
	ListCompleted(ctx context.Context, userID int, startDate, endDate string) ([]model.Tracking, error)
	ScoresByDate(ctx context.Context, userID int, startDate, endDate string) (map[string]int, error)
}

type SleepStore interface {
	Upsert(ctx context.Context, s *model.Sleep) error
	ListRange(ctx context.Context, userID int, startDate, endDate string) ([]model.Sleep, error)
	ListNights(ctx context.Context, userID int, startDate, endDate string) ([]model.Sleep, error)
	Delete(ctx context.Context, userID int, date, sleepType string, napIndex int) error
	CountNaps(ctx context.Context, userID int, date string) (int, error)
}

type AdminStore interface {
	Counts(ctx context.Context) (total, active, deactivated, pendingSubs, activeSubs int, err error)
	CountUsersSince(ctx context.Context, since time.Time) (int, error)
	CountTrackingSince(ctx context.Context, since time.Time) (int, error)
	UserGrowthByDay(ctx context.Context, since time.Time) (map[string]int, error)
	SubscriptionGrowthByDay(ctx context.Context, since time.Time) (map[string]int, error)
	TopUsers(ctx context.Context, limit int) ([]model.TopUser, error)
	ListUsers(ctx context.Context, search, status string, page, limit int) ([]model.UserWithStats, int, error)
	CountTrackingForUser(ctx context.Context, userID int) (int, error)
	ListByStatuses(ctx context.Context, statuses []string) ([]model.User, error)
}

// Publisher is the outbound event surface; mq.Producer implements it.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// Cache is the read-through cache surface; redis.Cache implements it.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, val string, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
}
