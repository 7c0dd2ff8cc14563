package notify

import (
	"fmt"

	"bankaccounts/internal/config"

	"gopkg.in/gomail.v2"
)

// EmailNotifier sends SMTP notifications. When SMTP is not configured it
// becomes a no-op so message delivery never depends on a mail server.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailNotifier(cfg config.Config) *EmailNotifier {
	if cfg.SMTPHost == "" {
		return &EmailNotifier{}
	}
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (n *EmailNotifier) Enabled() bool {
	return n.dialer != nil
}

func (n *EmailNotifier) MessageReceived(to, senderName, content string) error {
	if n.dialer == nil {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("New message from %s", senderName))
	m.SetBody("text/plain", content)
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send message notification: %w", err)
	}
	return nil
}
