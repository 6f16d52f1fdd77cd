package mq

import "time"

// Routing keys on the events exchange.
const (
	UserRegisteredKey        = "user.registered"
	SubscriptionSubmittedKey = "subscription.submitted"
	SubscriptionApprovedKey  = "subscription.approved"
	SubscriptionRejectedKey  = "subscription.rejected"
)

type UserRegisteredPayload struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type SubscriptionSubmittedPayload struct {
	UserID      int       `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type SubscriptionDecisionPayload struct {
	UserID    int        `json:"user_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Approved  bool       `json:"approved"`
	Expiry    *time.Time `json:"expiry,omitempty"`
	DecidedAt time.Time  `json:"decided_at"`
}
