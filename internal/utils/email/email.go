package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Denish004/banking-system/internal/config"
	"github.com/Denish004/banking-system/internal/models"
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

// SendTransactionNotification sends a notification email for a committed
// deposit or withdrawal.
func (s *Sender) SendTransactionNotification(to, username, accountNumber string, amount decimal.Decimal, txType models.TransactionType, balance decimal.Decimal) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}

	body := fmt.Sprintf("Dear %s,\n\n", username)
	switch txType {
	case models.TypeDeposit:
		e.Subject = "Deposit Notification"
		body += fmt.Sprintf(
			"Your account %s has been credited with %s.\n"+
				"Transaction time: %s\n"+
				"Current balance: %s\n",
			accountNumber, amount.StringFixed(2), time.Now().Format("2006-01-02 15:04:05"), balance.StringFixed(2),
		)
	case models.TypeWithdrawal:
		e.Subject = "Withdrawal Notification"
		body += fmt.Sprintf(
			"An amount of %s has been withdrawn from your account %s.\n"+
				"Transaction time: %s\n"+
				"Current balance: %s\n",
			amount.StringFixed(2), accountNumber, time.Now().Format("2006-01-02 15:04:05"), balance.StringFixed(2),
		)
	}
	body += "\nBest regards,\nBank Service"
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
