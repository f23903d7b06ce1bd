package repository

import (
	"context"

	"account-playground/models"
)

// AccountRepository defines the storage operations the account use cases depend on.
type AccountRepository interface {
	// Save appends an account. Ids are not checked for duplicates.
	Save(ctx context.Context, account *models.Account) error
	// FindByID returns the first account with the id, or models.ErrNotFound.
	FindByID(ctx context.Context, accountID int64) (*models.Account, error)
	// FindByCustomerID returns every account of a customer in insertion order.
	FindByCustomerID(ctx context.Context, customerID int64) ([]*models.Account, error)
	// Update persists a changed balance.
	Update(ctx context.Context, account *models.Account) error
	// NextID hands out the next account id. Ids increase monotonically.
	NextID(ctx context.Context) (int64, error)
	// WithinTx runs fn against a repository bound to one unit of work. Accounts
	// read through it stay locked until fn returns; an error from fn discards
	// its writes where the store supports it.
	WithinTx(ctx context.Context, fn func(repo AccountRepository) error) error
}
