package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"habittrack/internal/model"
	"habittrack/internal/mq"
	"habittrack/internal/util"
)

// defaultHabits is the starter set created on first login. Creation
// timestamps are backdated one year so historical months show the default
// set; this is a product decision, not a bug.
var defaultHabits = []struct {
	Name  string
	Goal  int
	Color string
}{
	{"Running", 30, "#FF6B6B"},
	{"Meditation", 25, "#4ECDC4"},
	{"Taking a Bath", 20, "#45B7D1"},
	{"Eating healthy", 25, "#96CEB4"},
	{"Drink 2L of water", 25, "#FFEAA7"},
	{"Reading Books", 15, "#DDA0DD"},
	{"Stretching", 28, "#98D8C8"},
	{"Save $5", 28, "#F7DC6F"},
	{"Sleep early", 25, "#BB8FCE"},
}

type AuthService struct {
	users     UserStore
	habits    HabitStore
	verifier  GoogleVerifier
	publisher Publisher
	jwtSecret string
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(users UserStore, habits HabitStore, verifier GoogleVerifier, publisher Publisher, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		habits:    habits,
		verifier:  verifier,
		publisher: publisher,
		jwtSecret: jwtSecret,
		logger:    logger,
		now:       time.Now,
	}
}

// GoogleLogin verifies the credential, finds or creates the user, and
// returns a signed session token. New users get the default habit set.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (string, *model.User, bool, error) {
	profile, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return "", nil, false, err
	}

	isNewUser := false
	user, err := s.users.FindByGoogleID(ctx, profile.GoogleID)
	if errors.Is(err, pgx.ErrNoRows) {
		isNewUser = true
		user = &model.User{
			GoogleID:           profile.GoogleID,
			Email:              profile.Email,
			Name:               profile.Name,
			Picture:            profile.Picture,
			IsActive:           true,
			SubscriptionStatus: model.SubscriptionNone,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return "", nil, false, err
		}
		s.seedDefaultHabits(ctx, user.ID)

		payload := mq.UserRegisteredPayload{UserID: user.ID, Email: user.Email, Name: user.Name}
		if err := s.publisher.Publish(mq.UserRegisteredKey, payload); err != nil {
			s.logger.Warn("Failed to publish user.registered", zap.Error(err))
		}
	} else if err != nil {
		return "", nil, false, err
	}

	token, err := util.GenerateUserJWT(user.ID, s.jwtSecret)
	if err != nil {
		return "", nil, false, err
	}

	s.logger.Info("User logged in",
		zap.Int("user_id", user.ID),
		zap.Bool("new_user", isNewUser),
	)
	return token, user, isNewUser, nil
}

func (s *AuthService) seedDefaultHabits(ctx context.Context, userID int) {
	oneYearAgo := s.now().AddDate(-1, 0, 0)

	for i, d := range defaultHabits {
		h := &model.Habit{
			UserID:    userID,
			Name:      d.Name,
			Goal:      d.Goal,
			Color:     d.Color,
			Order:     i,
			CreatedAt: oneYearAgo,
		}
		if err := s.habits.Insert(ctx, h); err != nil {
			s.logger.Error("Failed to seed default habit",
				zap.Int("user_id", userID),
				zap.String("name", d.Name),
				zap.Error(err),
			)
		}
	}
}

// Profile returns the user's own profile.
func (s *AuthService) Profile(ctx context.Context, userID int) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile changes the user-editable fields; nil means unchanged.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int, name *string, dob *time.Time, gender *string) (*model.User, error) {
	return s.users.UpdateProfile(ctx, userID, name, dob, gender)
}
