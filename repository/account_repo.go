package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"account-playground/models"
)

// CreateAccountsTableSQL is the schema the MySQL repository expects.
const CreateAccountsTableSQL = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id     BIGINT PRIMARY KEY,
	customer_id    BIGINT NOT NULL,
	account_number VARCHAR(32) NOT NULL UNIQUE,
	balance        DOUBLE NOT NULL DEFAULT 0,
	last_updated   TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	INDEX idx_accounts_customer (customer_id)
);`

var _ AccountRepository = (*mysqlAccountRepository)(nil)

// mysqlAccountRepository implements AccountRepository for MySQL.
type mysqlAccountRepository struct {
	db        DBTX
	forUpdate bool // lock rows read by FindByID, set inside WithinTx
}

// NewMySQLAccountRepository creates a new MySQL account repository.
// db may be a *sql.DB or a *sql.Tx.
func NewMySQLAccountRepository(db DBTX) AccountRepository {
	return &mysqlAccountRepository{db: db}
}

// EnsureSchema creates the accounts table if it does not exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.ExecContext(ctx, CreateAccountsTableSQL); err != nil {
		return fmt.Errorf("EnsureSchema: %w", err)
	}
	return nil
}

// Save inserts a new account row.
func (r *mysqlAccountRepository) Save(ctx context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("Save: nil account: %w", models.ErrInvalidArgument)
	}
	query := "INSERT INTO accounts (account_id, customer_id, account_number, balance) VALUES (?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, account.AccountID, account.CustomerID, account.AccountNumber, account.Balance)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// FindByID retrieves a single account by its ID.
func (r *mysqlAccountRepository) FindByID(ctx context.Context, accountID int64) (*models.Account, error) {
	var acc models.Account
	query := "SELECT account_id, customer_id, account_number, balance FROM accounts WHERE account_id = ?"
	if r.forUpdate {
		query += " FOR UPDATE"
	}
	row := r.db.QueryRowContext(ctx, query, accountID)
	err := row.Scan(&acc.AccountID, &acc.CustomerID, &acc.AccountNumber, &acc.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FindByID: account %d: %w", accountID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return &acc, nil
}

// FindByCustomerID retrieves all accounts of a customer ordered by ID.
func (r *mysqlAccountRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*models.Account, error) {
	query := "SELECT account_id, customer_id, account_number, balance FROM accounts WHERE customer_id = ? ORDER BY account_id"
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("FindByCustomerID: %w", err)
	}
	defer rows.Close()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		var acc models.Account
		if err := rows.Scan(&acc.AccountID, &acc.CustomerID, &acc.AccountNumber, &acc.Balance); err != nil {
			return nil, fmt.Errorf("FindByCustomerID: scan error: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("FindByCustomerID: rows iteration error: %w", err)
	}
	return accounts, nil
}

// Update writes the account's balance. MySQL reports zero affected rows when the
// value is unchanged, so the row count is not used as an existence check.
func (r *mysqlAccountRepository) Update(ctx context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("Update: nil account: %w", models.ErrInvalidArgument)
	}
	query := "UPDATE accounts SET balance = ? WHERE account_id = ?"
	if _, err := r.db.ExecContext(ctx, query, account.Balance, account.AccountID); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// NextID returns one past the highest stored account id.
func (r *mysqlAccountRepository) NextID(ctx context.Context) (int64, error) {
	var next int64
	query := "SELECT COALESCE(MAX(account_id), 0) + 1 FROM accounts"
	if err := r.db.QueryRowContext(ctx, query).Scan(&next); err != nil {
		return 0, fmt.Errorf("NextID: Scan failed: %w", err)
	}
	return next, nil
}

// WithinTx runs fn inside a database transaction, committing when fn succeeds.
// If the repository is already bound to a *sql.Tx, fn joins it.
func (r *mysqlAccountRepository) WithinTx(ctx context.Context, fn func(repo AccountRepository) error) error {
	beginner, ok := r.db.(txBeginner)
	if !ok {
		return fn(&mysqlAccountRepository{db: r.db, forUpdate: true})
	}

	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("WithinTx: begin: %w", err)
	}
	if err := fn(&mysqlAccountRepository{db: tx, forUpdate: true}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("WithinTx: rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("WithinTx: commit: %w", err)
	}
	return nil
}
