package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account. Balance is only ever mutated through
// the ledger engine, inside a row-locked store transaction.
type Account struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
