package model

import "time"

// Subscription lifecycle. Paused is a sub-flag of an active subscription,
// not a status of its own.
const (
	SubscriptionNone    = "none"
	SubscriptionPending = "pending"
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

type User struct {
	ID                 int        `json:"id"`
	GoogleID           string     `json:"-"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Picture            string     `json:"picture"`
	DOB                *time.Time `json:"dob"`
	Gender             string     `json:"gender"`
	IsActive           bool       `json:"isActive"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	SubscriptionDate   *time.Time `json:"subscriptionDate"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry"`
	IsPaused           bool       `json:"isPaused"`
	PausedAt           *time.Time `json:"pausedAt"`
	HasScreenshot      bool       `json:"hasScreenshot"`
	CreatedAt          time.Time  `json:"createdAt"`
}
