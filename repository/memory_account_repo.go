package repository

import (
	"context"
	"fmt"

	"account-playground/models"

	"go.uber.org/atomic"
)

var _ AccountRepository = (*inMemoryAccountRepository)(nil)

// inMemoryAccountRepository keeps accounts in insertion order. It is not safe
// for concurrent mutation; only the id counter is atomic. Save raises the
// counter to the saved id, so NextID never repeats a stored id.
type inMemoryAccountRepository struct {
	accounts []*models.Account
	lastID   *atomic.Int64
}

// NewInMemoryAccountRepository creates an empty in-memory account repository.
func NewInMemoryAccountRepository() AccountRepository {
	return &inMemoryAccountRepository{lastID: atomic.NewInt64(0)}
}

func (r *inMemoryAccountRepository) Save(_ context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("Save: nil account: %w", models.ErrInvalidArgument)
	}
	r.accounts = append(r.accounts, account)
	for {
		last := r.lastID.Load()
		if account.AccountID <= last || r.lastID.CompareAndSwap(last, account.AccountID) {
			return nil
		}
	}
}

// FindByID scans the accounts and returns the stored pointer of the first match.
func (r *inMemoryAccountRepository) FindByID(_ context.Context, accountID int64) (*models.Account, error) {
	for _, acc := range r.accounts {
		if acc.AccountID == accountID {
			return acc, nil
		}
	}
	return nil, fmt.Errorf("FindByID: account %d: %w", accountID, models.ErrNotFound)
}

func (r *inMemoryAccountRepository) FindByCustomerID(_ context.Context, customerID int64) ([]*models.Account, error) {
	accounts := make([]*models.Account, 0)
	for _, acc := range r.accounts {
		if acc.CustomerID == customerID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

// Update replaces the first stored account with the same id. Accounts returned
// by FindByID are the stored ones, so this is a no-op for them.
func (r *inMemoryAccountRepository) Update(_ context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("Update: nil account: %w", models.ErrInvalidArgument)
	}
	for i, acc := range r.accounts {
		if acc.AccountID == account.AccountID {
			r.accounts[i] = account
			return nil
		}
	}
	return fmt.Errorf("Update: account %d: %w", account.AccountID, models.ErrNotFound)
}

// NextID returns one more than the highest id handed out or saved so far.
func (r *inMemoryAccountRepository) NextID(_ context.Context) (int64, error) {
	return r.lastID.Inc(), nil
}

// WithinTx calls fn with the repository itself. Writes are not rolled back.
func (r *inMemoryAccountRepository) WithinTx(_ context.Context, fn func(repo AccountRepository) error) error {
	return fn(r)
}
