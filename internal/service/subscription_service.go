package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"habittrack/internal/model"
	"habittrack/internal/mq"
	"habittrack/internal/util"
	"habittrack/pkg/metrics"
)

var (
	ErrNotActive     = errors.New("subscription is not active")
	ErrAlreadyPaused = errors.New("subscription is already paused")
	ErrNotPaused     = errors.New("subscription is not paused")
)

// subscriptionDuration is the entitlement granted on admin approval.
const subscriptionDuration = 365 * 24 * time.Hour

type SubscriptionService struct {
	users     UserStore
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewSubscriptionService(users UserStore, publisher Publisher, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// UserByID loads a user; the auth middleware uses this together with
// Reconcile.
func (s *SubscriptionService) UserByID(ctx context.Context, id int) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

// Reconcile applies the time-based active -> expired transition to the given
// user, persisting the flip and mutating the struct in place. Idempotent; it
// is called from the auth middleware on every gated request and from the
// worker sweep.
func (s *SubscriptionService) Reconcile(ctx context.Context, u *model.User) error {
	if u.SubscriptionStatus != model.SubscriptionActive || u.IsPaused {
		return nil
	}
	if u.SubscriptionExpiry == nil || !u.SubscriptionExpiry.Before(s.now()) {
		return nil
	}

	if err := s.users.SetExpired(ctx, u.ID); err != nil {
		return err
	}
	u.SubscriptionStatus = model.SubscriptionExpired

	metrics.IncrementSubscriptionTransition("expired")
	s.logger.Info("Subscription lazily expired", zap.Int("user_id", u.ID))
	return nil
}

// ExpireOverdue sweeps every overdue active subscription to expired.
func (s *SubscriptionService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.users.ExpireOverdue(ctx, s.now())
}

// SubmitPayment compresses and stores the screenshot and moves the user to
// pending review.
func (s *SubscriptionService) SubmitPayment(ctx context.Context, userID int, screenshot []byte) (*model.User, error) {
	compressed, err := util.CompressScreenshot(screenshot)
	if err != nil {
		return nil, err
	}

	user, err := s.users.SetPaymentPending(ctx, userID, compressed)
	if err != nil {
		return nil, err
	}

	payload := mq.SubscriptionSubmittedPayload{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		SubmittedAt: s.now(),
	}
	if err := s.publisher.Publish(mq.SubscriptionSubmittedKey, payload); err != nil {
		s.logger.Warn("Failed to publish subscription.submitted", zap.Error(err))
	}

	metrics.IncrementSubscriptionTransition("submitted")
	s.logger.Info("Payment screenshot submitted",
		zap.Int("user_id", user.ID),
		zap.Int("screenshot_bytes", len(compressed)),
	)
	return user, nil
}

// Status returns the user's subscription view.
func (s *SubscriptionService) Status(ctx context.Context, userID int) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Approve activates a pending subscription for a year from now.
func (s *SubscriptionService) Approve(ctx context.Context, userID int) (*model.User, error) {
	now := s.now()
	user, err := s.users.Activate(ctx, userID, now, now.Add(subscriptionDuration))
	if err != nil {
		return nil, err
	}

	payload := mq.SubscriptionDecisionPayload{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Approved:  true,
		Expiry:    user.SubscriptionExpiry,
		DecidedAt: now,
	}
	if err := s.publisher.Publish(mq.SubscriptionApprovedKey, payload); err != nil {
		s.logger.Warn("Failed to publish subscription.approved", zap.Error(err))
	}

	metrics.IncrementSubscriptionTransition("approved")
	return user, nil
}

// Reject sends the user back to the unsubscribed state.
func (s *SubscriptionService) Reject(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.ClearSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload := mq.SubscriptionDecisionPayload{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Approved:  false,
		DecidedAt: s.now(),
	}
	if err := s.publisher.Publish(mq.SubscriptionRejectedKey, payload); err != nil {
		s.logger.Warn("Failed to publish subscription.rejected", zap.Error(err))
	}

	metrics.IncrementSubscriptionTransition("rejected")
	return user, nil
}

// Pause freezes an active subscription's countdown by recording the pause
// instant.
func (s *SubscriptionService) Pause(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.SubscriptionStatus != model.SubscriptionActive {
		return nil, ErrNotActive
	}
	if user.IsPaused {
		return nil, ErrAlreadyPaused
	}

	paused, err := s.users.Pause(ctx, userID, s.now())
	if err == nil {
		metrics.IncrementSubscriptionTransition("paused")
	}
	return paused, err
}

// Resume unfreezes a paused subscription. The expiry shifts forward by the
// wall-clock pause duration, preserving the remaining entitlement.
func (s *SubscriptionService) Resume(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.SubscriptionStatus != model.SubscriptionActive {
		return nil, ErrNotActive
	}
	if !user.IsPaused {
		return nil, ErrNotPaused
	}

	var newExpiry *time.Time
	if user.SubscriptionExpiry != nil && user.PausedAt != nil {
		pausedFor := s.now().Sub(*user.PausedAt)
		shifted := user.SubscriptionExpiry.Add(pausedFor)
		newExpiry = &shifted
	}

	resumed, err := s.users.Resume(ctx, userID, newExpiry)
	if err == nil {
		metrics.IncrementSubscriptionTransition("resumed")
	}
	return resumed, err
}

// DaysLeft computes the remaining entitlement in whole days, floored at zero.
// Paused subscriptions measure from the pause instant, so the number shown
// stays frozen while paused.
func DaysLeft(u *model.User, now time.Time) int {
	if u.SubscriptionStatus != model.SubscriptionActive || u.SubscriptionExpiry == nil {
		return 0
	}

	from := now
	if u.IsPaused {
		if u.PausedAt == nil {
			return 0
		}
		from = *u.PausedAt
	}

	left := u.SubscriptionExpiry.Sub(from)
	if left <= 0 {
		return 0
	}
	days := int(left.Hours() / 24)
	if left.Hours() > float64(days)*24 {
		days++ // round up partial days
	}
	return days
}
