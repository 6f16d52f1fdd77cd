package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habittrack/internal/model"
	"habittrack/internal/util"
)

const testSecret = "test-secret"

type fakeGate struct {
	user *model.User
	err  error
}

func (f *fakeGate) UserByID(ctx context.Context, id int) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeGate) Reconcile(ctx context.Context, u *model.User) error {
	if u.SubscriptionStatus == model.SubscriptionActive && !u.IsPaused &&
		u.SubscriptionExpiry != nil && u.SubscriptionExpiry.Before(time.Now()) {
		u.SubscriptionStatus = model.SubscriptionExpired
	}
	return nil
}

func newAuthTestRouter(gate *fakeGate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := r.Group("/")
	auth.Use(AuthMiddleware(gate, testSecret))
	auth.GET("/habits", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": currentUserID(c)})
	})
	auth.GET("/subscription/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doAuthRequest(t *testing.T, r *gin.Engine, path, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func activeUser() *model.User {
	expiry := time.Now().Add(30 * 24 * time.Hour)
	return &model.User{
		ID:                 1,
		IsActive:           true,
		SubscriptionStatus: model.SubscriptionActive,
		SubscriptionExpiry: &expiry,
	}
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	r := newAuthTestRouter(&fakeGate{user: activeUser()})
	w, body := doAuthRequest(t, r, "/habits", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeAccessDenied, body["error"])
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := newAuthTestRouter(&fakeGate{user: activeUser()})
	w, body := doAuthRequest(t, r, "/habits", "not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeInvalidToken, body["error"])
}

func TestAuthMiddlewareUserGone(t *testing.T) {
	r := newAuthTestRouter(&fakeGate{err: pgx.ErrNoRows})
	token, _ := util.GenerateUserJWT(1, testSecret)
	w, body := doAuthRequest(t, r, "/habits", token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeUserNotFound, body["error"])
}

func TestAuthMiddlewareDeactivated(t *testing.T) {
	u := activeUser()
	u.IsActive = false
	r := newAuthTestRouter(&fakeGate{user: u})
	token, _ := util.GenerateUserJWT(1, testSecret)
	w, body := doAuthRequest(t, r, "/habits", token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeAccountDeactivated, body["error"])
}

func TestAuthMiddlewareActiveUserPasses(t *testing.T) {
	r := newAuthTestRouter(&fakeGate{user: activeUser()})
	token, _ := util.GenerateUserJWT(1, testSecret)
	w, body := doAuthRequest(t, r, "/habits", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["userId"])
}

func TestAuthMiddlewareSubscriptionGates(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.User)
		wantCode string
	}{
		{
			name:     "no subscription",
			mutate:   func(u *model.User) { u.SubscriptionStatus = model.SubscriptionNone },
			wantCode: CodeNoSubscription,
		},
		{
			name:     "pending review",
			mutate:   func(u *model.User) { u.SubscriptionStatus = model.SubscriptionPending },
			wantCode: CodeSubscriptionPending,
		},
		{
			name:     "already expired",
			mutate:   func(u *model.User) { u.SubscriptionStatus = model.SubscriptionExpired },
			wantCode: CodeSubscriptionExpired,
		},
		{
			name: "lazily expired during the request",
			mutate: func(u *model.User) {
				past := time.Now().Add(-time.Hour)
				u.SubscriptionExpiry = &past
			},
			wantCode: CodeSubscriptionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := activeUser()
			tt.mutate(u)
			r := newAuthTestRouter(&fakeGate{user: u})
			token, _ := util.GenerateUserJWT(1, testSecret)
			w, body := doAuthRequest(t, r, "/habits", token)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestAuthMiddlewareExemptRoutesBypassSubscriptionGate(t *testing.T) {
	u := activeUser()
	u.SubscriptionStatus = model.SubscriptionNone
	r := newAuthTestRouter(&fakeGate{user: u})
	token, _ := util.GenerateUserJWT(1, testSecret)

	w, _ := doAuthRequest(t, r, "/subscription/status", token)
	assert.Equal(t, http.StatusOK, w.Code, "subscription routes reachable without a subscription")

	w, body := doAuthRequest(t, r, "/habits", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeNoSubscription, body["error"])
}

func TestAuthMiddlewarePausedBlocksEverything(t *testing.T) {
	u := activeUser()
	u.IsPaused = true
	r := newAuthTestRouter(&fakeGate{user: u})
	token, _ := util.GenerateUserJWT(1, testSecret)

	// Paused blocks even the otherwise exempt routes.
	for _, path := range []string{"/habits", "/subscription/status"} {
		w, body := doAuthRequest(t, r, path, token)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
		assert.Equal(t, CodeSubscriptionPaused, body["error"], path)
	}
}

func TestAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	admin := r.Group("/admin")
	admin.Use(AdminMiddleware(testSecret))
	admin.GET("/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("admin_username")})
	})

	// No token.
	w, body := doAuthRequest(t, r, "/admin/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeAccessDenied, body["error"])

	// A user token is not an admin token.
	userToken, _ := util.GenerateUserJWT(1, testSecret)
	w, body = doAuthRequest(t, r, "/admin/dashboard", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeAdminRequired, body["error"])

	// A real admin token passes and exposes the username.
	adminToken, _ := util.GenerateAdminJWT("admin", testSecret)
	w, body = doAuthRequest(t, r, "/admin/dashboard", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", body["username"])
}
