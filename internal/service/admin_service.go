package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"habittrack/internal/model"
	"habittrack/internal/util"
)

var ErrBadAdminCredentials = errors.New("invalid admin credentials")

type AdminService struct {
	admin        AdminStore
	users        UserStore
	habits       HabitStore
	username     string
	passwordHash string
	jwtSecret    string
	logger       *zap.Logger
	now          func() time.Time
}

func NewAdminService(admin AdminStore, users UserStore, habits HabitStore, username, passwordHash, jwtSecret string, logger *zap.Logger) *AdminService {
	return &AdminService{
		admin:        admin,
		users:        users,
		habits:       habits,
		username:     username,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		logger:       logger,
		now:          time.Now,
	}
}

// Login checks the configured admin credentials and returns a capability
// token.
func (s *AdminService) Login(username, password string) (string, error) {
	if username != s.username || !util.CheckPassword(password, s.passwordHash) {
		return "", ErrBadAdminCredentials
	}
	return util.GenerateAdminJWT(username, s.jwtSecret)
}

// Dashboard assembles the admin landing page aggregate.
func (s *AdminService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}

	var err error
	stats.TotalUsers, stats.ActiveUsers, stats.DeactivatedUsers,
		stats.PendingSubscriptions, stats.ActiveSubscriptions, err = s.admin.Counts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	weekAgo := util.StartOfISTDay(now, 7)
	monthAgo := util.StartOfISTDay(now, 30)

	if stats.NewUsersThisWeek, err = s.admin.CountUsersSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	if stats.NewUsersThisMonth, err = s.admin.CountUsersSince(ctx, monthAgo); err != nil {
		return nil, err
	}
	if stats.RecentActivity, err = s.admin.CountTrackingSince(ctx, weekAgo); err != nil {
		return nil, err
	}

	since := util.StartOfISTDay(now, 29)
	userGrowth, err := s.admin.UserGrowthByDay(ctx, since)
	if err != nil {
		return nil, err
	}
	subGrowth, err := s.admin.SubscriptionGrowthByDay(ctx, since)
	if err != nil {
		return nil, err
	}
	stats.GrowthData = growthSeries(now, userGrowth)
	stats.SubscriptionGrowthData = growthSeries(now, subGrowth)

	if stats.TopUsers, err = s.admin.TopUsers(ctx, 5); err != nil {
		return nil, err
	}

	return stats, nil
}

// growthSeries renders a 30-day series ending today, zero-filling days with
// no rows.
func growthSeries(now time.Time, byDay map[string]int) []model.GrowthPoint {
	series := make([]model.GrowthPoint, 0, 30)
	for i := 29; i >= 0; i-- {
		day := util.StartOfISTDay(now, i)
		key := day.Format(util.DateLayout)
		series = append(series, model.GrowthPoint{
			Date:  day.Format("2 Jan"),
			Count: byDay[key],
		})
	}
	return series
}

// ListUsers returns one page of the user table.
func (s *AdminService) ListUsers(ctx context.Context, search, status string, page, limit int) (*model.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, total, err := s.admin.ListUsers(ctx, search, status, page, limit)
	if err != nil {
		return nil, err
	}

	pages := (total + limit - 1) / limit
	return &model.UserPage{
		Users:       users,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
	}, nil
}

// UserDetail returns one user with all their habits and tracking volume.
func (s *AdminService) UserDetail(ctx context.Context, userID int) (*model.User, []model.Habit, int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, 0, err
	}

	habits, err := s.habits.ListAll(ctx, userID)
	if err != nil {
		return nil, nil, 0, err
	}

	trackingCount, err := s.admin.CountTrackingForUser(ctx, userID)
	if err != nil {
		return nil, nil, 0, err
	}

	return user, habits, trackingCount, nil
}

// ToggleUserStatus flips a user's active flag.
func (s *AdminService) ToggleUserStatus(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.ToggleActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User status toggled",
		zap.Int("user_id", userID),
		zap.Bool("is_active", user.IsActive),
	)
	return user, nil
}

// DeleteUser removes the account and every owned row.
func (s *AdminService) DeleteUser(ctx context.Context, userID int) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.Int("user_id", userID))
	return nil
}

// PendingSubscriptions lists users awaiting payment review.
func (s *AdminService) PendingSubscriptions(ctx context.Context) ([]model.User, error) {
	return s.admin.ListByStatuses(ctx, []string{model.SubscriptionPending})
}

// AllSubscriptions lists every user with a subscription history, decorated
// with remaining days.
func (s *AdminService) AllSubscriptions(ctx context.Context) ([]model.SubscriptionUser, error) {
	users, err := s.admin.ListByStatuses(ctx, []string{
		model.SubscriptionActive, model.SubscriptionExpired, model.SubscriptionPending,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	decorated := make([]model.SubscriptionUser, 0, len(users))
	for _, u := range users {
		decorated = append(decorated, model.SubscriptionUser{
			User:     u,
			DaysLeft: DaysLeft(&u, now),
		})
	}
	return decorated, nil
}

// Screenshot returns the raw payment screenshot for admin review.
func (s *AdminService) Screenshot(ctx context.Context, userID int) ([]byte, error) {
	return s.users.Screenshot(ctx, userID)
}
