package mail

import (
	"context"
	"time"

	"github.com/cartify/auth-service/internal/application"
	"github.com/cartify/auth-service/pkg/helpers"
	"github.com/cartify/auth-service/pkg/mailer"
)

// QueueSender enqueues email jobs on RabbitMQ for the email worker. The
// orchestrator only sees the EmailSender capability, never the transport.
type QueueSender struct {
	Pub         *helpers.RabbitPublisher
	VerifyURL   string
	ResetURL    string
	CompanyName string
	SupportURL  string
	VerifyTTL   time.Duration
	ResetTTL    time.Duration
	Enabled     bool
}

func (s *QueueSender) publish(ctx context.Context, to, template, actionURL string, ttl time.Duration) error {
	if !s.Enabled || s.Pub == nil {
		return nil
	}
	job := mailer.EmailJob{
		To:       to,
		Template: template,
		Data: map[string]any{
			"CompanyName": s.CompanyName,
			"SupportURL":  s.SupportURL,
			"ActionURL":   actionURL,
			"ExpiresIn":   ttl.String(),
		},
	}
	return s.Pub.PublishJSON(ctx, job)
}

// SendVerification mails a link containing the opaque verification token.
func (s *QueueSender) SendVerification(ctx context.Context, email, token string) error {
	return s.publish(ctx, email, mailer.TemplateVerifyAccount, s.VerifyURL+"?token="+token, s.VerifyTTL)
}

// SendPasswordReset mails a link containing the opaque reset token.
func (s *QueueSender) SendPasswordReset(ctx context.Context, email, token string) error {
	return s.publish(ctx, email, mailer.TemplateResetPassword, s.ResetURL+"?token="+token, s.ResetTTL)
}

var _ application.EmailSender = (*QueueSender)(nil)
