package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of ledger entry types.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

// Transaction represents a financial transaction. Rows are append-only:
// they are never updated or deleted, and replaying them in (created_at, id)
// order reproduces the account's current balance.
type Transaction struct {
	ID            int64           `db:"id" json:"id"`
	AccountID     int64           `db:"account_id" json:"account_id"`
	Type          TransactionType `db:"type" json:"type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
