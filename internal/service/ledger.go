package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Denish004/banking-system/internal/models"
	"github.com/Denish004/banking-system/internal/repository"
)

// TransactionResult is the outcome of a ledger operation. Success false is
// a business outcome (insufficient funds), not an error: the balance is
// untouched and no transaction row was written.
type TransactionResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Balance decimal.Decimal `json:"balance"`
}

// errInsufficientFunds aborts the store transaction for a rejected
// withdrawal. It never escapes Withdraw.
var errInsufficientFunds = errors.New("insufficient funds")

// Deposit credits the account and appends the matching ledger record as one
// atomic unit. The account row is locked for the whole read-modify-write
// sequence, so balance_before always reflects the latest committed balance.
func (s *Service) Deposit(ctx context.Context, user *models.User, accountID int64, amount decimal.Decimal) (*TransactionResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeAccountAccess(ctx, user, accountID); err != nil {
		return nil, err
	}

	var (
		result  *TransactionResult
		account *models.Account
	)
	err := s.store.Transact(ctx, func(tx repository.LedgerTx) error {
		var err error
		account, err = tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		before := account.Balance
		after := before.Add(amount)
		if err := tx.UpdateBalance(ctx, accountID, after); err != nil {
			return err
		}
		txn := &models.Transaction{
			AccountID:     accountID,
			Type:          models.TypeDeposit,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
		}
		if err := tx.InsertTransaction(ctx, txn); err != nil {
			return err
		}

		result = &TransactionResult{
			Success: true,
			Message: fmt.Sprintf("Successfully deposited %s", amount),
			Balance: after,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Deposit of %s on account %d, balance %s", amount, accountID, result.Balance)
	s.notify(ctx, account, amount, models.TypeDeposit, result.Balance)
	return result, nil
}

// Withdraw debits the account under the same lock discipline as Deposit.
// Insufficient funds is reported through the result, with the transaction
// rolled back and nothing written.
func (s *Service) Withdraw(ctx context.Context, user *models.User, accountID int64, amount decimal.Decimal) (*TransactionResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeAccountAccess(ctx, user, accountID); err != nil {
		return nil, err
	}

	var (
		result  *TransactionResult
		account *models.Account
	)
	err := s.store.Transact(ctx, func(tx repository.LedgerTx) error {
		var err error
		account, err = tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		before := account.Balance
		if before.LessThan(amount) {
			result = &TransactionResult{
				Success: false,
				Message: "Insufficient Funds",
				Balance: before,
			}
			return errInsufficientFunds
		}

		after := before.Sub(amount)
		if err := tx.UpdateBalance(ctx, accountID, after); err != nil {
			return err
		}
		txn := &models.Transaction{
			AccountID:     accountID,
			Type:          models.TypeWithdrawal,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
		}
		if err := tx.InsertTransaction(ctx, txn); err != nil {
			return err
		}

		result = &TransactionResult{
			Success: true,
			Message: fmt.Sprintf("Successfully withdrew %s", amount),
			Balance: after,
		}
		return nil
	})
	if err != nil && !errors.Is(err, errInsufficientFunds) {
		return nil, err
	}
	if !result.Success {
		s.log.Infof("Withdrawal of %s on account %d rejected: insufficient funds", amount, accountID)
		return result, nil
	}

	s.log.Infof("Withdrawal of %s on account %d, balance %s", amount, accountID, result.Balance)
	s.notify(ctx, account, amount, models.TypeWithdrawal, result.Balance)
	return result, nil
}

// validateAmount rejects bad amounts before any row lock is taken. Amounts
// must be positive and carry at most two decimal places of significance.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

// notify sends the post-commit email, best effort.
func (s *Service) notify(ctx context.Context, account *models.Account, amount decimal.Decimal, txType models.TransactionType, balance decimal.Decimal) {
	if s.notifier == nil || account == nil {
		return
	}
	owner, err := s.store.FindUserByID(ctx, account.UserID)
	if err != nil || owner == nil {
		s.log.Warnf("Skipping notification for account %d: owner lookup failed", account.ID)
		return
	}
	if err := s.notifier.SendTransactionNotification(owner.Email, owner.Username, account.AccountNumber, amount, txType, balance); err != nil {
		s.log.Errorf("Failed to send %s notification to %s: %v", txType, owner.Email, err)
	}
}
