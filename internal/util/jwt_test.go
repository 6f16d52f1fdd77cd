package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestUserJWTRoundTrip(t *testing.T) {
	token, err := GenerateUserJWT(42, testSecret)
	require.NoError(t, err)

	userID, err := ParseUserJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestUserJWTWrongSecret(t *testing.T) {
	token, err := GenerateUserJWT(42, testSecret)
	require.NoError(t, err)

	_, err = ParseUserJWT(token, "other-secret")
	assert.Error(t, err)
	assert.False(t, IsExpired(err))
}

func TestExpiredTokenDetected(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Hour).Unix(),
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseUserJWT(token, testSecret)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}

func TestAdminJWTCarriesCapability(t *testing.T) {
	token, err := GenerateAdminJWT("admin", testSecret)
	require.NoError(t, err)

	username, err := ParseAdminJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestUserTokenIsNotAdmin(t *testing.T) {
	token, err := GenerateUserJWT(42, testSecret)
	require.NoError(t, err)

	_, err = ParseAdminJWT(token, testSecret)
	assert.Error(t, err, "user token lacks the admin claim")
}

func TestExtractToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(req))

	req.Header.Set("Authorization", "bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(req), "scheme is case-insensitive")

	req.Header.Set("Authorization", "abc123")
	assert.Empty(t, ExtractToken(req))
}
