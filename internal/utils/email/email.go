package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jmdelacruz/pharmacy-inventory/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
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

// SendInventoryAlert notifies the recipient about expired and low-stock
// items found by the daily inventory check
func (s *Sender) SendInventoryAlert(to string, expired, lowStock int, inventoryValue string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Inventory Alert"

	body := fmt.Sprintf("Inventory check on %s:\n\n", time.Now().Format("2006-01-02"))
	if expired > 0 {
		body += fmt.Sprintf("%d product(s) past their expiry date.\n", expired)
	}
	if lowStock > 0 {
		body += fmt.Sprintf("%d product(s) at or below the low-stock threshold.\n", lowStock)
	}
	body += fmt.Sprintf("\nCurrent inventory value: %s\n", inventoryValue)
	body += "\nBest regards,\nPharmacy Inventory Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
