package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Denish004/banking-system/internal/models"
)

func TestAccountsReturnsOwnAccountsOnly(t *testing.T) {
	store, alice, bob, _, _ := seedBank("100.00")
	store.addAccount(models.Account{ID: 11, UserID: 2, AccountNumber: "01000002", Balance: money("7.00")})
	svc := NewService(store, testLogger(), nil)
	ctx := context.Background()

	accounts, err := svc.Accounts(ctx, alice)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(10), accounts[0].ID)

	accounts, err = svc.Accounts(ctx, bob)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(11), accounts[0].ID)
}

func TestAccountTransactionsOrderedMostRecentFirst(t *testing.T) {
	store, alice, bob, banker, acct := seedBank("0.00")
	svc := NewService(store, testLogger(), nil)
	ctx := context.Background()

	for _, amount := range []string{"10.00", "20.00", "30.00"} {
		_, err := svc.Deposit(ctx, alice, acct.ID, money(amount))
		require.NoError(t, err)
	}

	txns, err := svc.AccountTransactions(ctx, alice, acct.ID)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	// Equal timestamps fall back to insertion order, so the listing is
	// deterministic either way; the newest entry is the largest deposit.
	assert.True(t, txns[0].CreatedAt.After(txns[2].CreatedAt) || txns[0].CreatedAt.Equal(txns[2].CreatedAt))

	_, err = svc.AccountTransactions(ctx, bob, acct.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	asBanker, err := svc.AccountTransactions(ctx, banker, acct.ID)
	require.NoError(t, err)
	assert.Len(t, asBanker, 3)
}

func TestUserTransactionsSpanAllOwnedAccounts(t *testing.T) {
	store, alice, _, _, acct := seedBank("0.00")
	second := store.addAccount(models.Account{ID: 11, UserID: 1, AccountNumber: "01000002", Balance: money("0.00")})
	svc := NewService(store, testLogger(), nil)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, alice, acct.ID, money("1.00"))
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, alice, second.ID, money("2.00"))
	require.NoError(t, err)

	txns, err := svc.UserTransactions(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestBankerAggregates(t *testing.T) {
	store, alice, _, banker, _ := seedBank("100.00")
	svc := NewService(store, testLogger(), nil)
	ctx := context.Background()

	t.Run("customers require banker role", func(t *testing.T) {
		_, err := svc.AllCustomers(ctx, alice)
		assert.ErrorIs(t, err, ErrForbidden)

		users, err := svc.AllCustomers(ctx, banker)
		require.NoError(t, err)
		require.Len(t, users, 2)
		for _, u := range users {
			assert.Equal(t, models.RoleCustomer, u.Role)
		}
	})

	t.Run("accounts joined with owner", func(t *testing.T) {
		_, err := svc.AllAccounts(ctx, alice)
		assert.ErrorIs(t, err, ErrForbidden)

		accounts, err := svc.AllAccounts(ctx, banker)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "alice", accounts[0].Username)
		assert.Equal(t, "Alice Doe", accounts[0].FullName)
	})
}

func TestUserDetails(t *testing.T) {
	store, alice, _, banker, acct := seedBank("0.00")
	svc := NewService(store, testLogger(), nil)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, alice, acct.ID, money("15.00"))
	require.NoError(t, err)

	_, err = svc.UserDetails(ctx, alice, alice.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UserDetails(ctx, banker, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	details, err := svc.UserDetails(ctx, banker, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", details.User.Username)
	require.Len(t, details.Accounts, 1)
	require.Len(t, details.Transactions, 1)
	assert.True(t, details.Transactions[0].Amount.Equal(money("15.00")))
}

func TestAccountStatement(t *testing.T) {
	store, alice, bob, _, acct := seedBank("0.00")
	svc := NewService(store, testLogger(), nil)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, alice, acct.ID, money("10.00"))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, alice, acct.ID, money("4.00"))
	require.NoError(t, err)

	_, err = svc.AccountStatement(ctx, bob, acct.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	st, err := svc.AccountStatement(ctx, alice, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "01000001", st.Account.AccountNumber)
	assert.Equal(t, "alice", st.Owner.Username)
	require.Len(t, st.Transactions, 2)
	// Chronological for statements: oldest entry first.
	assert.Equal(t, models.TypeDeposit, st.Transactions[0].Type)
	assert.Equal(t, models.TypeWithdrawal, st.Transactions[1].Type)
}
