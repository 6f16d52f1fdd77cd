package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habittrack/internal/mq"
	"habittrack/internal/util"
	"habittrack/pkg/metrics"
)

// Notifier turns domain events into emails. Each handler is registered as an
// MQ consumer callback in the worker; redeliveries are absorbed by the
// deduper so a requeued message does not mean a second email.
type Notifier struct {
	mailer  *Mailer
	deduper *util.Deduper
	logger  *zap.Logger
}

func New(mailer *Mailer, deduper *util.Deduper, logger *zap.Logger) *Notifier {
	return &Notifier{
		mailer:  mailer,
		deduper: deduper,
		logger:  logger,
	}
}

// HandleUserRegistered welcomes a new account.
func (n *Notifier) HandleUserRegistered(ctx context.Context, data json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mq.UserRegisteredKey, mq.UserRegisteredKey+".q", time.Since(start))
	}()

	var payload mq.UserRegisteredPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		n.logger.Error("Bad user.registered payload", zap.Error(err))
		return nil // poison message, do not requeue
	}

	if !n.deduper.AcquireOnce(ctx, "user.registered", payload.UserID) {
		return nil
	}

	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome aboard! Your starter habits are ready. Subscribe to start tracking.</p>",
		payload.Name,
	)
	return n.mailer.send(ctx, payload.Email, "Welcome to HabitTrack", html)
}

// HandleSubscriptionSubmitted tells the admin a payment is waiting for review.
func (n *Notifier) HandleSubscriptionSubmitted(ctx context.Context, data json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mq.SubscriptionSubmittedKey, mq.SubscriptionSubmittedKey+".q", time.Since(start))
	}()

	var payload mq.SubscriptionSubmittedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		n.logger.Error("Bad subscription.submitted payload", zap.Error(err))
		return nil
	}

	if !n.deduper.AcquireOnce(ctx, "subscription.submitted", payload.UserID) {
		return nil
	}

	html := fmt.Sprintf(
		"<p>%s (%s) submitted a payment screenshot at %s.</p><p>Review it in the admin panel.</p>",
		payload.Name, payload.Email, payload.SubmittedAt.In(util.IST).Format("2 Jan 2006 15:04"),
	)
	return n.mailer.send(ctx, n.mailer.adminAddress, "Payment pending review", html)
}

// HandleSubscriptionApproved tells the user their account is live.
func (n *Notifier) HandleSubscriptionApproved(ctx context.Context, data json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mq.SubscriptionApprovedKey, mq.SubscriptionApprovedKey+".q", time.Since(start))
	}()

	var payload mq.SubscriptionDecisionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		n.logger.Error("Bad subscription.approved payload", zap.Error(err))
		return nil
	}

	if !n.deduper.AcquireOnce(ctx, "subscription.approved", payload.UserID) {
		return nil
	}

	expiry := ""
	if payload.Expiry != nil {
		expiry = payload.Expiry.In(util.IST).Format("2 Jan 2006")
	}
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your subscription is active until %s. Happy tracking!</p>",
		payload.Name, expiry,
	)
	return n.mailer.send(ctx, payload.Email, "Subscription activated", html)
}

// HandleSubscriptionRejected tells the user their payment was not accepted.
func (n *Notifier) HandleSubscriptionRejected(ctx context.Context, data json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mq.SubscriptionRejectedKey, mq.SubscriptionRejectedKey+".q", time.Since(start))
	}()

	var payload mq.SubscriptionDecisionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		n.logger.Error("Bad subscription.rejected payload", zap.Error(err))
		return nil
	}

	if !n.deduper.AcquireOnce(ctx, "subscription.rejected", payload.UserID) {
		return nil
	}

	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>We could not verify your payment. Please submit a new screenshot or contact support.</p>",
		payload.Name,
	)
	return n.mailer.send(ctx, payload.Email, "Payment could not be verified", html)
}
