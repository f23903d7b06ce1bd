package service

import (
	"context"
	"fmt"

	"account-playground/models"
	"account-playground/repository"

	"go.uber.org/zap"
)

// AccountService opens accounts for customers.
type AccountService interface {
	CreateAccount(ctx context.Context, customerID int64, name, email, phoneNumber string) (*models.Account, error)
}

// accountServiceImpl implements AccountService.
type accountServiceImpl struct {
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo repository.AccountRepository, logger *zap.Logger) AccountService {
	return &accountServiceImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccount opens an empty account for the customer. The customer record is
// built for the call only and is not stored; caller input is accepted as-is.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, customerID int64, name, email, phoneNumber string) (*models.Account, error) {
	customer := models.NewCustomer(customerID, name, email, phoneNumber)

	accountID, err := s.accountRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("CreateAccount: failed to allocate account id: %w", err)
	}
	account := models.NewAccount(accountID, customer.CustomerID)

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: failed to save account %s: %w", account.AccountNumber, err)
	}

	s.logger.Info("account created",
		zap.Int64("account_id", account.AccountID),
		zap.String("account_number", account.AccountNumber),
		zap.Int64("customer_id", customer.CustomerID),
	)
	return account, nil
}
