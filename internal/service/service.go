package service

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Denish004/banking-system/internal/models"
	"github.com/Denish004/banking-system/internal/repository"
)

// Notifier delivers a best-effort notification after a committed ledger
// operation. Failures are logged and never affect the operation's outcome.
type Notifier interface {
	SendTransactionNotification(to, username, accountNumber string, amount decimal.Decimal, txType models.TransactionType, balance decimal.Decimal) error
}

// Service handles business logic
type Service struct {
	store    repository.Store
	log      *logrus.Logger
	notifier Notifier
}

// NewService initializes a new service. notifier may be nil when no SMTP
// delivery is configured.
func NewService(store repository.Store, log *logrus.Logger, notifier Notifier) *Service {
	return &Service{store: store, log: log, notifier: notifier}
}
