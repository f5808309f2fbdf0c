package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Denish004/banking-system/internal/models"
	"github.com/Denish004/banking-system/internal/repository"
)

// fakeStore is an in-memory repository.Store with transactional rollback,
// so service tests exercise the same all-or-nothing semantics the real
// store provides. Transact serializes operations the way the row lock
// does, which is what the concurrency tests rely on.
type fakeStore struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	accounts map[int64]*models.Account
	txns     []models.Transaction
	nextTxn  int64

	failInsert bool // injects a store failure after the balance write
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*models.User),
		accounts: make(map[int64]*models.Account),
	}
}

func (f *fakeStore) addUser(u models.User) *models.User {
	f.users[u.ID] = &u
	return &u
}

func (f *fakeStore) addAccount(a models.Account) *models.Account {
	f.accounts[a.ID] = &a
	return &a
}

func (f *fakeStore) FindUserByToken(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.AccessToken != nil && *u.AccessToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUserByLogin(_ context.Context, usernameOrEmail string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		u := f.users[id]
		if u.Username == usernameOrEmail || u.Email == usernameOrEmail {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) SetAccessToken(_ context.Context, userID int64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return errNoSuchUser
	}
	u.AccessToken = &token
	return nil
}

func (f *fakeStore) FindAccountByID(_ context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) AccountsByUser(_ context.Context, userID int64) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) AllAccounts(_ context.Context) ([]models.AccountSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AccountSummary
	for _, a := range f.accounts {
		s := models.AccountSummary{
			ID:            a.ID,
			UserID:        a.UserID,
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance,
			CreatedAt:     a.CreatedAt,
		}
		if u, ok := f.users[a.UserID]; ok {
			s.Username = u.Username
			s.FullName = u.FullName
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) AllCustomers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.Role == models.RoleCustomer {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) AccountIDs(_ context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id := range f.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) TransactionsByAccount(_ context.Context, accountID int64) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, t := range f.txns {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	sortHistory(out)
	return out, nil
}

func (f *fakeStore) TransactionsByUser(_ context.Context, userID int64) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owned := make(map[int64]bool)
	for _, a := range f.accounts {
		if a.UserID == userID {
			owned[a.ID] = true
		}
	}
	var out []models.Transaction
	for _, t := range f.txns {
		if owned[t.AccountID] {
			out = append(out, t)
		}
	}
	sortHistory(out)
	return out, nil
}

func (f *fakeStore) LedgerEntries(_ context.Context, accountID int64) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, t := range f.txns {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// sortHistory orders most recent first, insertion order inside ties.
func sortHistory(txns []models.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].CreatedAt.After(txns[j].CreatedAt)
		}
		return txns[i].ID < txns[j].ID
	})
}

func (f *fakeStore) Transact(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Snapshot for rollback
	savedAccounts := make(map[int64]models.Account, len(f.accounts))
	for id, a := range f.accounts {
		savedAccounts[id] = *a
	}
	savedTxns := len(f.txns)
	savedNext := f.nextTxn

	if err := fn(&fakeTx{store: f}); err != nil {
		for id := range f.accounts {
			a := savedAccounts[id]
			f.accounts[id] = &a
		}
		f.txns = f.txns[:savedTxns]
		f.nextTxn = savedNext
		return err
	}
	return nil
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) LockAccount(_ context.Context, accountID int64) (*models.Account, error) {
	a, ok := t.store.accounts[accountID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (t *fakeTx) UpdateBalance(_ context.Context, accountID int64, balance decimal.Decimal) error {
	a, ok := t.store.accounts[accountID]
	if !ok {
		return errNoSuchAccount
	}
	a.Balance = balance
	return nil
}

func (t *fakeTx) InsertTransaction(_ context.Context, txn *models.Transaction) error {
	if t.store.failInsert {
		return errInjected
	}
	t.store.nextTxn++
	txn.ID = t.store.nextTxn
	txn.CreatedAt = time.Now()
	t.store.txns = append(t.store.txns, *txn)
	return nil
}
