package service

import (
	"context"

	"github.com/Denish004/banking-system/internal/models"
)

// Statement bundles everything a rendered account statement needs.
type Statement struct {
	Account      *models.Account
	Owner        *models.User
	Transactions []models.Transaction
}

// Accounts lists the calling user's own accounts.
func (s *Service) Accounts(ctx context.Context, user *models.User) ([]models.Account, error) {
	return s.store.AccountsByUser(ctx, user.ID)
}

// AccountTransactions lists an account's history, most recent first. The
// caller must own the account or be a banker.
func (s *Service) AccountTransactions(ctx context.Context, user *models.User, accountID int64) ([]models.Transaction, error) {
	if _, err := s.AuthorizeAccountAccess(ctx, user, accountID); err != nil {
		return nil, err
	}
	return s.store.TransactionsByAccount(ctx, accountID)
}

// UserTransactions lists the history across all of the caller's accounts,
// most recent first.
func (s *Service) UserTransactions(ctx context.Context, user *models.User) ([]models.Transaction, error) {
	return s.store.TransactionsByUser(ctx, user.ID)
}

// AllCustomers lists every customer. Banker only.
func (s *Service) AllCustomers(ctx context.Context, user *models.User) ([]models.User, error) {
	if err := s.AuthorizeRole(user, models.RoleBanker); err != nil {
		return nil, err
	}
	return s.store.AllCustomers(ctx)
}

// AllAccounts lists every account with its owning customer joined in.
// Banker only.
func (s *Service) AllAccounts(ctx context.Context, user *models.User) ([]models.AccountSummary, error) {
	if err := s.AuthorizeRole(user, models.RoleBanker); err != nil {
		return nil, err
	}
	return s.store.AllAccounts(ctx)
}

// UserDetails aggregates one customer's profile, accounts and merged
// transaction history. Banker only.
func (s *Service) UserDetails(ctx context.Context, user *models.User, targetUserID int64) (*models.UserDetails, error) {
	if err := s.AuthorizeRole(user, models.RoleBanker); err != nil {
		return nil, err
	}
	target, err := s.store.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	accounts, err := s.store.AccountsByUser(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.TransactionsByUser(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	return &models.UserDetails{User: target, Accounts: accounts, Transactions: txns}, nil
}

// AccountStatement gathers the data for an XML statement: the account, its
// owner and the full history in chronological order. The caller must own
// the account or be a banker.
func (s *Service) AccountStatement(ctx context.Context, user *models.User, accountID int64) (*Statement, error) {
	account, err := s.AuthorizeAccountAccess(ctx, user, accountID)
	if err != nil {
		return nil, err
	}
	owner, err := s.store.FindUserByID(ctx, account.UserID)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.LedgerEntries(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &Statement{Account: account, Owner: owner, Transactions: txns}, nil
}
