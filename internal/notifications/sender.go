package notifications

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Sender delivers a rendered message to its recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages over plain SMTP with optional auth.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(host string, port int, from, username, password string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, msg.Recipient, msg.Subject, msg.Body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.Recipient}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender logs messages instead of delivering them. Used when SMTP is not
// configured, so development environments still see what would have gone out.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("notification (not sent, smtp disabled)",
		zap.String("kind", string(msg.Kind)),
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject),
	)
	return nil
}
