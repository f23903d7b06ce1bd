package service

import (
	"context"
	"fmt"

	"account-playground/models"
	"account-playground/repository"

	"go.uber.org/zap"
)

// TransactionService defines the interface for deposit and withdrawal logic.
type TransactionService interface {
	MakeTransaction(ctx context.Context, accountID int64, amount float64, kind models.TransactionKind) (float64, error)
}

// transactionServiceImpl implements TransactionService.
type transactionServiceImpl struct {
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(accountRepo repository.AccountRepository, logger *zap.Logger) TransactionService {
	return &transactionServiceImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// MakeTransaction applies a deposit or withdrawal and returns the resulting balance.
// The read and the write run in one repository transaction. Nothing is recorded
// besides the balance change.
func (s *transactionServiceImpl) MakeTransaction(ctx context.Context, accountID int64, amount float64, kind models.TransactionKind) (float64, error) {
	var balance float64
	err := s.accountRepo.WithinTx(ctx, func(repo repository.AccountRepository) error {
		account, err := repo.FindByID(ctx, accountID)
		if err != nil {
			return err
		}

		switch kind {
		case models.KindDeposit:
			balance, err = account.Deposit(amount)
		case models.KindWithdraw:
			balance, err = account.Withdraw(amount)
		default:
			return fmt.Errorf("unknown transaction type %q, use %q or %q: %w",
				kind, models.KindDeposit, models.KindWithdraw, models.ErrInvalidArgument)
		}
		if err != nil {
			return err
		}

		if err := repo.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to persist balance of account %d: %w", accountID, err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("MakeTransaction: %w", err)
	}

	s.logger.Info("transaction applied",
		zap.Int64("account_id", accountID),
		zap.String("kind", string(kind)),
		zap.Float64("amount", amount),
		zap.Float64("balance", balance),
	)
	return balance, nil
}
