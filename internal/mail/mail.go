package mail

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/taxfree/card-wallet/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled reports whether SMTP is configured. Registration works without it;
// the welcome mail is simply skipped.
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.SenderEmail != ""
}

// SendWelcome sends a welcome email to a newly registered user
func (s *Sender) SendWelcome(to, name string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to your card wallet"

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your account has been created. You can now add your barcode cards\n"+
			"and find them on any device by signing in with this email address.\n"+
			"\nBest regards,\nCard Wallet",
		name,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", to, err)
	}

	s.logger.Infof("Welcome email sent to %s", to)
	return nil
}
