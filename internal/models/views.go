package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSummary is the read-optimised projection of an account with its
// owning customer joined in. Served to bankers only.
type AccountSummary struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	Username      string          `db:"username" json:"username"`
	FullName      string          `db:"full_name" json:"full_name"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// UserDetails aggregates everything a banker sees about one customer.
type UserDetails struct {
	User         *User         `json:"user"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
}
