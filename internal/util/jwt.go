package util

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateUserJWT creates a 7-day token for a given user ID.
func GenerateUserJWT(userID int, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAdminJWT creates a 24-hour token carrying the admin capability.
// Admin access is a signed claim, not a role record; there is no stored
// session behind it.
func GenerateAdminJWT(username, secret string) (string, error) {
	claims := jwt.MapClaims{
		"is_admin": true,
		"username": username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseUserJWT validates a token and extracts the user ID.
func ParseUserJWT(tokenStr, secret string) (int, error) {
	claims, err := parse(tokenStr, secret)
	if err != nil {
		return 0, err
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, jwt.ErrTokenMalformed
	}

	return int(userIDFloat), nil
}

// ParseAdminJWT validates a token and checks the admin claim. It returns the
// admin username.
func ParseAdminJWT(tokenStr, secret string) (string, error) {
	claims, err := parse(tokenStr, secret)
	if err != nil {
		return "", err
	}

	isAdmin, ok := claims["is_admin"].(bool)
	if !ok || !isAdmin {
		return "", jwt.ErrTokenInvalidClaims
	}

	username, _ := claims["username"].(string)
	return username, nil
}

// IsExpired reports whether a parse error was caused by token expiry, so the
// HTTP layer can answer with TOKEN_EXPIRED instead of INVALID_TOKEN.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func parse(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}

	return claims, nil
}

// ExtractToken pulls the bearer token out of the Authorization header.
func ExtractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
