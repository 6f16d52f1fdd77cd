package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"habittrack/internal/model"
)

// In-memory store fakes. They implement just enough behavior for the service
// tests; anything the tests never call returns zero values.

type fakeUserStore struct {
	users  map[int]*model.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int]*model.User{}, nextID: 1}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, u *model.User) error {
	u.ID = f.nextID
	f.nextID++
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	for _, u := range f.users {
		if u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) FindByID(ctx context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, id int, name *string, dob *time.Time, gender *string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if name != nil {
		u.Name = *name
	}
	if dob != nil {
		u.DOB = dob
	}
	if gender != nil {
		u.Gender = *gender
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) SetPaymentPending(ctx context.Context, id int, screenshot []byte) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.SubscriptionStatus = model.SubscriptionPending
	u.HasScreenshot = true
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Screenshot(ctx context.Context, id int) ([]byte, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) Activate(ctx context.Context, id int, date, expiry time.Time) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.SubscriptionStatus = model.SubscriptionActive
	u.SubscriptionDate = &date
	u.SubscriptionExpiry = &expiry
	u.IsPaused = false
	u.PausedAt = nil
	u.HasScreenshot = false
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) ClearSubscription(ctx context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.SubscriptionStatus = model.SubscriptionNone
	u.SubscriptionDate = nil
	u.SubscriptionExpiry = nil
	u.HasScreenshot = false
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) SetExpired(ctx context.Context, id int) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.SubscriptionStatus = model.SubscriptionExpired
	return nil
}

func (f *fakeUserStore) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.SubscriptionStatus == model.SubscriptionActive && !u.IsPaused &&
			u.SubscriptionExpiry != nil && u.SubscriptionExpiry.Before(now) {
			u.SubscriptionStatus = model.SubscriptionExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeUserStore) Pause(ctx context.Context, id int, at time.Time) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.IsPaused = true
	u.PausedAt = &at
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Resume(ctx context.Context, id int, newExpiry *time.Time) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.IsPaused = false
	u.PausedAt = nil
	if newExpiry != nil {
		u.SubscriptionExpiry = newExpiry
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) ToggleActive(ctx context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.IsActive = !u.IsActive
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id int) error {
	delete(f.users, id)
	return nil
}

type fakeHabitStore struct {
	habits map[int]*model.Habit
	nextID int
}

func newFakeHabitStore() *fakeHabitStore {
	return &fakeHabitStore{habits: map[int]*model.Habit{}, nextID: 1}
}

func (f *fakeHabitStore) Insert(ctx context.Context, h *model.Habit) error {
	h.ID = f.nextID
	f.nextID++
	cp := *h
	f.habits[h.ID] = &cp
	return nil
}

func (f *fakeHabitStore) FindByID(ctx context.Context, userID, habitID int) (*model.Habit, error) {
	h, ok := f.habits[habitID]
	if !ok || h.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *h
	return &cp, nil
}

func (f *fakeHabitStore) ListCurrent(ctx context.Context, userID int) ([]model.Habit, error) {
	var out []model.Habit
	for id := 1; id < f.nextID; id++ {
		h, ok := f.habits[id]
		if ok && h.UserID == userID && h.DeletedAt == nil {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeHabitStore) ListAll(ctx context.Context, userID int) ([]model.Habit, error) {
	var out []model.Habit
	for id := 1; id < f.nextID; id++ {
		if h, ok := f.habits[id]; ok && h.UserID == userID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeHabitStore) ListForMonth(ctx context.Context, userID int, endOfMonth time.Time) ([]model.Habit, error) {
	var out []model.Habit
	for id := 1; id < f.nextID; id++ {
		h, ok := f.habits[id]
		if !ok || h.UserID != userID || h.CreatedAt.After(endOfMonth) {
			continue
		}
		if h.DeletedAt != nil && !h.DeletedAt.After(endOfMonth) {
			continue
		}
		out = append(out, *h)
	}
	return out, nil
}

func (f *fakeHabitStore) CountByUser(ctx context.Context, userID int) (int, error) {
	n := 0
	for _, h := range f.habits {
		if h.UserID == userID && h.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeHabitStore) Update(ctx context.Context, userID, habitID int, name *string, goal *int, color *string, order *int) (*model.Habit, error) {
	h, ok := f.habits[habitID]
	if !ok || h.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	if name != nil {
		h.Name = *name
	}
	if goal != nil {
		h.Goal = *goal
	}
	if color != nil {
		h.Color = *color
	}
	if order != nil {
		h.Order = *order
	}
	cp := *h
	return &cp, nil
}

func (f *fakeHabitStore) SetDefaultGoal(ctx context.Context, habitID, goal int) error {
	if h, ok := f.habits[habitID]; ok {
		h.Goal = goal
	}
	return nil
}

func (f *fakeHabitStore) SetDefaultName(ctx context.Context, habitID int, name string) error {
	if h, ok := f.habits[habitID]; ok {
		h.Name = name
	}
	return nil
}

func (f *fakeHabitStore) SoftDelete(ctx context.Context, userID, habitID int, at time.Time) (bool, error) {
	h, ok := f.habits[habitID]
	if !ok || h.UserID != userID || h.DeletedAt != nil {
		return false, nil
	}
	h.DeletedAt = &at
	return true, nil
}

type nameKey struct{ habitID, year, month int }

type fakeOverrideStore struct {
	goals map[nameKey]int
	names map[nameKey]string
}

func newFakeOverrideStore() *fakeOverrideStore {
	return &fakeOverrideStore{
		goals: map[nameKey]int{},
		names: map[nameKey]string{},
	}
}

func (f *fakeOverrideStore) UpsertGoal(ctx context.Context, g *model.MonthlyGoal) error {
	f.goals[nameKey{g.HabitID, g.Year, g.Month}] = g.Goal
	return nil
}

func (f *fakeOverrideStore) GoalsForMonth(ctx context.Context, userID, year, month int) (map[int]int, error) {
	out := map[int]int{}
	for k, v := range f.goals {
		if k.year == year && k.month == month {
			out[k.habitID] = v
		}
	}
	return out, nil
}

func (f *fakeOverrideStore) UpsertName(ctx context.Context, n *model.MonthlyHabitName) error {
	f.names[nameKey{n.HabitID, n.Year, n.Month}] = n.Name
	return nil
}

func (f *fakeOverrideStore) InsertNameIfAbsent(ctx context.Context, n *model.MonthlyHabitName) error {
	k := nameKey{n.HabitID, n.Year, n.Month}
	if _, exists := f.names[k]; !exists {
		f.names[k] = n.Name
	}
	return nil
}

func (f *fakeOverrideStore) DeleteName(ctx context.Context, userID, habitID, year, month int) error {
	delete(f.names, nameKey{habitID, year, month})
	return nil
}

func (f *fakeOverrideStore) NamesForMonth(ctx context.Context, userID, year, month int) (map[int]string, error) {
	out := map[int]string{}
	for k, v := range f.names {
		if k.year == year && k.month == month {
			out[k.habitID] = v
		}
	}
	return out, nil
}

func (f *fakeOverrideStore) NameMonths(ctx context.Context, userID, habitID int) (map[[2]int]bool, error) {
	out := map[[2]int]bool{}
	for k := range f.names {
		if k.habitID == habitID {
			out[[2]int{k.year, k.month}] = true
		}
	}
	return out, nil
}

type trackKey struct {
	habitID int
	date    string
}

type fakeTrackingStore struct {
	rows map[trackKey]*model.Tracking
}

func newFakeTrackingStore() *fakeTrackingStore {
	return &fakeTrackingStore{rows: map[trackKey]*model.Tracking{}}
}

func (f *fakeTrackingStore) Upsert(ctx context.Context, t *model.Tracking) error {
	k := trackKey{t.HabitID, t.Date}
	if existing, ok := f.rows[k]; ok {
		existing.Completed = t.Completed
		existing.Score = t.Score
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		return nil
	}
	t.ID = len(f.rows) + 1
	t.CreatedAt = time.Now()
	cp := *t
	f.rows[k] = &cp
	return nil
}

func (f *fakeTrackingStore) CompletedDatesForHabit(ctx context.Context, userID, habitID int, startDate, endDate string) ([]string, error) {
	var dates []string
	for k, t := range f.rows {
		if k.habitID == habitID && t.Completed && t.Date >= startDate && t.Date <= endDate {
			dates = append(dates, t.Date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (f *fakeTrackingStore) ListCompleted(ctx context.Context, userID int, startDate, endDate string) ([]model.Tracking, error) {
	var out []model.Tracking
	for _, t := range f.rows {
		if t.UserID == userID && t.Completed && t.Date >= startDate && t.Date <= endDate {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTrackingStore) ScoresByDate(ctx context.Context, userID int, startDate, endDate string) (map[string]int, error) {
	out := map[string]int{}
	for _, t := range f.rows {
		if t.UserID == userID && t.Completed && t.Date >= startDate && t.Date <= endDate {
			out[t.Date] += t.Score
		}
	}
	return out, nil
}

type fakeCache struct {
	values map[string]string
	dels   []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeCache) Set(ctx context.Context, key, val string, ttl time.Duration) {
	f.values[key] = val
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) {
	for _, k := range keys {
		delete(f.values, k)
		f.dels = append(f.dels, k)
	}
}

type publishedEvent struct {
	key     string
	payload any
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	f.events = append(f.events, publishedEvent{routingKey, payload})
	return nil
}

type fakeVerifier struct {
	profile *GoogleProfile
	err     error
}

func (f *fakeVerifier) Verify(ctx context.Context, credential string) (*GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}
