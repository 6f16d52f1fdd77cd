package notifier

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"habittrack/internal/config"
	"habittrack/pkg/metrics"
)

// Mailer sends notification emails through the Resend API.
type Mailer struct {
	client       *resend.Client
	from         string
	adminAddress string
	logger       *zap.Logger
}

func NewMailer(cfg config.EmailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		client:       resend.NewClient(cfg.APIKey),
		from:         cfg.From,
		adminAddress: cfg.AdminAddress,
		logger:       logger,
	}
}

// send delivers one email, retrying once on failure.
func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		sent, err := m.client.Emails.SendWithContext(ctx, params)
		if err == nil {
			metrics.IncrementEmailSent("success")
			m.logger.Info("Email sent",
				zap.String("message_id", sent.Id),
				zap.String("to", to),
				zap.String("subject", subject),
			)
			return nil
		}
		lastErr = err
	}

	metrics.IncrementEmailSent("failed")
	m.logger.Error("Email delivery failed",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Error(lastErr),
	)
	return fmt.Errorf("email send failed: %w", lastErr)
}
