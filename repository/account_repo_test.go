package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"account-playground/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{"account_id", "customer_id", "account_number", "balance"}

func newMockRepo(t *testing.T) (AccountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewMySQLAccountRepository(db), mock
}

func TestMySQL_Save(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO accounts (account_id, customer_id, account_number, balance) VALUES (?, ?, ?, ?)").
		WithArgs(int64(1), int64(42), "ACCT-00001", 0.0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), models.NewAccount(1, 42)))
}

func TestMySQL_FindByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	query := "SELECT account_id, customer_id, account_number, balance FROM accounts WHERE account_id = ?"
	mock.ExpectQuery(query).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(int64(1), int64(42), "ACCT-00001", 50.0))
	mock.ExpectQuery(query).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	acc, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &models.Account{AccountID: 1, CustomerID: 42, AccountNumber: "ACCT-00001", Balance: 50}, acc)

	_, err = repo.FindByID(context.Background(), 2)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMySQL_FindByID_DriverError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT account_id, customer_id, account_number, balance FROM accounts WHERE account_id = ?").
		WithArgs(int64(1)).
		WillReturnError(boom)

	_, err := repo.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestMySQL_FindByCustomerID(t *testing.T) {
	repo, mock := newMockRepo(t)
	query := "SELECT account_id, customer_id, account_number, balance FROM accounts WHERE customer_id = ? ORDER BY account_id"
	mock.ExpectQuery(query).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(int64(1), int64(7), "ACCT-00001", 10.0).
			AddRow(int64(3), int64(7), "ACCT-00003", 0.0))
	mock.ExpectQuery(query).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	got, err := repo.FindByCustomerID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].AccountID)
	assert.Equal(t, int64(3), got[1].AccountID)

	none, err := repo.FindByCustomerID(context.Background(), 8)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMySQL_Update(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE accounts SET balance = ? WHERE account_id = ?").
		WithArgs(75.5, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	acc := models.NewAccount(1, 42)
	acc.Balance = 75.5
	require.NoError(t, repo.Update(context.Background(), acc))
}

func TestMySQL_WithinTx_LocksAndCommits(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT account_id, customer_id, account_number, balance FROM accounts WHERE account_id = ? FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(int64(1), int64(42), "ACCT-00001", 50.0))
	mock.ExpectExec("UPDATE accounts SET balance = ? WHERE account_id = ?").
		WithArgs(60.0, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	err := repo.WithinTx(ctx, func(tx AccountRepository) error {
		acc, err := tx.FindByID(ctx, 1)
		if err != nil {
			return err
		}
		if _, err := acc.Deposit(10); err != nil {
			return err
		}
		return tx.Update(ctx, acc)
	})
	require.NoError(t, err)
}

func TestMySQL_WithinTx_RollsBackOnError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT account_id, customer_id, account_number, balance FROM accounts WHERE account_id = ? FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(int64(1), int64(42), "ACCT-00001", 50.0))
	mock.ExpectRollback()

	ctx := context.Background()
	err := repo.WithinTx(ctx, func(tx AccountRepository) error {
		acc, err := tx.FindByID(ctx, 1)
		if err != nil {
			return err
		}
		_, err = acc.Withdraw(80)
		return err
	})
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
}

func TestMySQL_WithinTx_BeginError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("too many connections")
	mock.ExpectBegin().WillReturnError(boom)

	called := false
	err := repo.WithinTx(context.Background(), func(AccountRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestMySQL_NextID(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT COALESCE(MAX(account_id), 0) + 1 FROM accounts").
		WillReturnRows(sqlmock.NewRows([]string{"next_id"}).AddRow(int64(3)))

	id, err := repo.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(CreateAccountsTableSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
