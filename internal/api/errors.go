package api

import (
	"github.com/gin-gonic/gin"
)

// Machine-readable error codes. The client keys forced logout and renewal
// prompts off these, so they are part of the API contract.
const (
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeAccountDeactivated  = "ACCOUNT_DEACTIVATED"
	CodeNoSubscription      = "NO_SUBSCRIPTION"
	CodeSubscriptionPending = "SUBSCRIPTION_PENDING"
	CodeSubscriptionExpired = "SUBSCRIPTION_EXPIRED"
	CodeSubscriptionPaused  = "SUBSCRIPTION_PAUSED"
	CodeAuthError           = "AUTH_ERROR"
	CodeValidation          = "VALIDATION_ERROR"
	CodeFutureDate          = "FUTURE_DATE"
	CodeNotFound            = "NOT_FOUND"
	CodeAdminRequired       = "ADMIN_REQUIRED"
	CodeInternal            = "INTERNAL_ERROR"
)

// respondError writes the {error, message} body every error shares.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": code, "message": message})
}

// abortError is respondError plus aborting the middleware chain.
func abortError(c *gin.Context, status int, code, message string) {
	respondError(c, status, code, message)
	c.Abort()
}
