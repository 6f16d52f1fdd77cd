package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"habittrack/internal/model"
	"habittrack/internal/util"
)

const (
	ctxUserID = "user_id"
	ctxUser   = "user"
)

// UserGate loads users and applies the time-based subscription transition
// during the auth check. SubscriptionService implements it.
type UserGate interface {
	UserByID(ctx context.Context, id int) (*model.User, error)
	Reconcile(ctx context.Context, u *model.User) error
}

// AuthMiddleware validates the bearer token, loads the user, and enforces the
// account and subscription gates. Subscription and profile/verify routes stay
// reachable in every state so a blocked user can see why and act.
func AuthMiddleware(gate UserGate, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			abortError(c, http.StatusUnauthorized, CodeAccessDenied, "Access denied. No token provided.")
			return
		}

		userID, err := util.ParseUserJWT(token, jwtSecret)
		if err != nil {
			if util.IsExpired(err) {
				abortError(c, http.StatusUnauthorized, CodeTokenExpired, "Your session has expired. Please login again.")
				return
			}
			abortError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid authentication token.")
			return
		}

		user, err := gate.UserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				abortError(c, http.StatusUnauthorized, CodeUserNotFound, "Your account no longer exists. Please contact support.")
				return
			}
			abortError(c, http.StatusUnauthorized, CodeAuthError, "Authentication failed.")
			return
		}

		if !user.IsActive {
			abortError(c, http.StatusForbidden, CodeAccountDeactivated, "Your account has been deactivated. Please contact support.")
			return
		}

		// A paused subscription blocks everything, exempt routes included.
		if user.SubscriptionStatus == model.SubscriptionActive && user.IsPaused {
			abortError(c, http.StatusForbidden, CodeSubscriptionPaused, "Your subscription has been paused by admin. Please contact support.")
			return
		}

		if !isExemptRoute(c.Request.URL.Path) {
			switch user.SubscriptionStatus {
			case model.SubscriptionNone:
				abortError(c, http.StatusForbidden, CodeNoSubscription, "Please subscribe to use this service.")
				return
			case model.SubscriptionPending:
				abortError(c, http.StatusForbidden, CodeSubscriptionPending, "Your payment is under verification. Account will be activated within 1 hour.")
				return
			}

			if err := gate.Reconcile(c.Request.Context(), user); err != nil {
				abortError(c, http.StatusInternalServerError, CodeInternal, "Authorization check failed.")
				return
			}
			if user.SubscriptionStatus == model.SubscriptionExpired {
				abortError(c, http.StatusForbidden, CodeSubscriptionExpired, "Your subscription has expired. Please renew to continue.")
				return
			}
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxUser, user)
		c.Next()
	}
}

func isExemptRoute(path string) bool {
	return strings.Contains(path, "/subscription") ||
		strings.Contains(path, "/auth/profile") ||
		strings.Contains(path, "/auth/verify")
}

// AdminMiddleware requires a token carrying the admin capability claim.
func AdminMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			abortError(c, http.StatusUnauthorized, CodeAccessDenied, "Access denied. No token provided.")
			return
		}

		username, err := util.ParseAdminJWT(token, jwtSecret)
		if err != nil {
			if util.IsExpired(err) {
				abortError(c, http.StatusUnauthorized, CodeTokenExpired, "Your session has expired. Please login again.")
				return
			}
			abortError(c, http.StatusForbidden, CodeAdminRequired, "Admin access required.")
			return
		}

		c.Set("admin_username", username)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}

func currentUser(c *gin.Context) *model.User {
	if u, ok := c.Get(ctxUser); ok {
		return u.(*model.User)
	}
	return nil
}
