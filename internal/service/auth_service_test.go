package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habittrack/internal/util"
)

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeHabitStore, *fakePublisher) {
	users := newFakeUserStore()
	habits := newFakeHabitStore()
	publisher := &fakePublisher{}
	verifier := &fakeVerifier{profile: &GoogleProfile{
		GoogleID: "g-123",
		Email:    "new@example.com",
		Name:     "New User",
		Picture:  "https://example.com/p.jpg",
	}}
	svc := NewAuthService(users, habits, verifier, publisher, "test-secret", zap.NewNop())
	return svc, users, habits, publisher
}

func TestGoogleLoginCreatesUserWithDefaults(t *testing.T) {
	svc, _, habits, publisher := newTestAuthService()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	token, user, isNewUser, err := svc.GoogleLogin(context.Background(), "credential")
	require.NoError(t, err)

	assert.True(t, isNewUser)
	assert.NotEmpty(t, token)
	assert.Equal(t, "new@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.Equal(t, "none", user.SubscriptionStatus)

	// Starter habits are seeded with creation backdated one year.
	seeded, _ := habits.ListCurrent(context.Background(), user.ID)
	require.Len(t, seeded, 9)
	assert.Equal(t, "Running", seeded[0].Name)
	assert.Equal(t, now.AddDate(-1, 0, 0), seeded[0].CreatedAt)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "user.registered", publisher.events[0].key)

	// The token round-trips through the parser.
	userID, err := util.ParseUserJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestGoogleLoginExistingUser(t *testing.T) {
	svc, _, habits, publisher := newTestAuthService()

	_, first, _, err := svc.GoogleLogin(context.Background(), "credential")
	require.NoError(t, err)

	_, second, isNewUser, err := svc.GoogleLogin(context.Background(), "credential")
	require.NoError(t, err)

	assert.False(t, isNewUser)
	assert.Equal(t, first.ID, second.ID)

	seeded, _ := habits.ListCurrent(context.Background(), first.ID)
	assert.Len(t, seeded, 9, "defaults seeded once, not twice")
	assert.Len(t, publisher.events, 1, "registration event fired once")
}

func TestGoogleLoginBadCredential(t *testing.T) {
	users := newFakeUserStore()
	habits := newFakeHabitStore()
	verifier := &fakeVerifier{err: ErrBadCredential}
	svc := NewAuthService(users, habits, verifier, &fakePublisher{}, "test-secret", zap.NewNop())

	_, _, _, err := svc.GoogleLogin(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrBadCredential)
	assert.Empty(t, users.users)
}
