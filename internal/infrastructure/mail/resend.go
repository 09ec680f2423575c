package mail

import (
	"context"
	"fmt"

	"cottage-booking/config"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

type resendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender returns a Sender backed by the Resend API.
func NewResendSender(cfg config.MailConfig) Sender {
	return &resendSender{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.From,
	}
}

func (s *resendSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send %q: %w", msg.Subject, err)
	}

	logrus.Debugf("Email sent: id=%s, subject=%q, recipients=%d", sent.Id, msg.Subject, len(msg.To))
	return nil
}

type logSender struct {
	log *logrus.Logger
}

// NewLogSender returns a Sender that only logs messages. Used when no API key is configured.
func NewLogSender(log *logrus.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email delivery disabled, message logged only")
	return nil
}
