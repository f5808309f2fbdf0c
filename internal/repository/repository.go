package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Denish004/banking-system/internal/models"
)

// Store is the persistence contract the service layer works against.
// Find* methods return (nil, nil) when the row is absent; callers decide
// whether absence is an error.
type Store interface {
	FindUserByToken(ctx context.Context, token string) (*models.User, error)
	FindUserByLogin(ctx context.Context, usernameOrEmail string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	SetAccessToken(ctx context.Context, userID int64, token string) error

	FindAccountByID(ctx context.Context, id int64) (*models.Account, error)
	AccountsByUser(ctx context.Context, userID int64) ([]models.Account, error)
	AllAccounts(ctx context.Context) ([]models.AccountSummary, error)
	AllCustomers(ctx context.Context) ([]models.User, error)
	AccountIDs(ctx context.Context) ([]int64, error)

	TransactionsByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error)
	TransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	LedgerEntries(ctx context.Context, accountID int64) ([]models.Transaction, error)

	Transact(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the slice of a store transaction the ledger engine needs:
// lock the account row, rewrite its balance, append the paired transaction
// record. All three run inside one database transaction; the row lock is
// held until commit or rollback.
type LedgerTx interface {
	LockAccount(ctx context.Context, accountID int64) (*models.Account, error)
	UpdateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error
	InsertTransaction(ctx context.Context, txn *models.Transaction) error
}

// Repository provides database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

const userColumns = `id, username, email, full_name, password, role, access_token, created_at`

// FindUserByToken resolves an access token to its user by exact match.
func (r *Repository) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE access_token = $1`
	err := r.db.GetContext(ctx, user, query, token)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by token: %w", err)
	}
	return user, nil
}

// FindUserByLogin retrieves a user by username or email. When a username of
// one row collides with the email of another, the first match wins.
func (r *Repository) FindUserByLogin(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 LIMIT 1`
	err := r.db.GetContext(ctx, user, query, usernameOrEmail)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by primary key.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// SetAccessToken stores a freshly minted token as the user's sole valid
// credential, invalidating whatever token was there before.
func (r *Repository) SetAccessToken(ctx context.Context, userID int64, token string) error {
	query := `UPDATE users SET access_token = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, token, userID)
	if err != nil {
		return fmt.Errorf("failed to set access token: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to set access token: user %d not found", userID)
	}
	return nil
}

// FindAccountByID retrieves an account by primary key.
func (r *Repository) FindAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT id, user_id, account_number, balance, created_at FROM accounts WHERE id = $1`
	err := r.db.GetContext(ctx, account, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// AccountsByUser retrieves all accounts owned by a user.
func (r *Repository) AccountsByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	var accounts []models.Account
	query := `
		SELECT id, user_id, account_number, balance, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY id`
	if err := r.db.SelectContext(ctx, &accounts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// AllAccounts retrieves every account with its owning customer joined in.
func (r *Repository) AllAccounts(ctx context.Context) ([]models.AccountSummary, error) {
	var accounts []models.AccountSummary
	query := `
		SELECT a.id, a.user_id, a.account_number, a.balance, a.created_at,
		       u.username, u.full_name
		FROM accounts a
		JOIN users u ON a.user_id = u.id
		ORDER BY a.id`
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("failed to list all accounts: %w", err)
	}
	return accounts, nil
}

// AllCustomers retrieves every customer-role user.
func (r *Repository) AllCustomers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &users, query, models.RoleCustomer); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return users, nil
}

// AccountIDs retrieves every account id, for the ledger audit sweep.
func (r *Repository) AccountIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM accounts ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list account ids: %w", err)
	}
	return ids, nil
}

const transactionColumns = `id, account_id, type, amount, balance_before, balance_after, created_at`

// TransactionsByAccount retrieves an account's history, most recent first.
// Ties on created_at are broken by insertion order so the listing is
// deterministic.
func (r *Repository) TransactionsByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id ASC`
	if err := r.db.SelectContext(ctx, &txns, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// TransactionsByUser retrieves the history of every account a user owns,
// most recent first.
func (r *Repository) TransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	query := `
		SELECT t.id, t.account_id, t.type, t.amount, t.balance_before, t.balance_after, t.created_at
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.user_id = $1
		ORDER BY t.created_at DESC, t.id ASC`
	if err := r.db.SelectContext(ctx, &txns, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user transactions: %w", err)
	}
	return txns, nil
}

// LedgerEntries retrieves an account's history in replay order (oldest
// first), for folding the balance chain.
func (r *Repository) LedgerEntries(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &txns, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	return txns, nil
}

// Transact runs fn inside a database transaction. Any error from fn, or a
// cancelled context, rolls the whole transaction back; nothing fn wrote
// survives. Commit happens only when fn returns nil.
func (r *Repository) Transact(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx *sqlx.Tx
}

// LockAccount reads the account row under an exclusive row lock. Concurrent
// ledger operations on the same account queue here; operations on other
// accounts are unaffected.
func (t *ledgerTx) LockAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT id, user_id, account_number, balance, created_at FROM accounts WHERE id = $1 FOR UPDATE`
	err := t.tx.GetContext(ctx, account, query, accountID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return account, nil
}

func (t *ledgerTx) UpdateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1 WHERE id = $2`
	if _, err := t.tx.ExecContext(ctx, query, balance, accountID); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, type, amount, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := t.tx.QueryRowxContext(ctx, query,
		txn.AccountID, txn.Type, txn.Amount, txn.BalanceBefore, txn.BalanceAfter,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}
