package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

// SMTPConfig holds the outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// EmailNotifier mails one digest per batch of notices
type EmailNotifier struct {
	cfg SMTPConfig
}

// NewEmailNotifier creates an e-mail notifier.
func NewEmailNotifier(cfg SMTPConfig) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if len(cfg.To) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &EmailNotifier{cfg: cfg}, nil
}

func (n *EmailNotifier) message(notices []Notice) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("BOATRACE Odds <%s>", n.cfg.From)
	mail.To = n.cfg.To
	mail.Subject = fmt.Sprintf("【高配当アラート】1号艇 %d件", len(notices))
	mail.Text = []byte(formatDigest(notices))
	return mail
}

// Notify sends a single digest mail
func (n *EmailNotifier) Notify(_ context.Context, notices []Notice) error {
	if len(notices) == 0 {
		return nil
	}

	mail := n.message(notices)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	err := mail.Send(addr, auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("sending alert mail: %w", err)
	}
	return nil
}
