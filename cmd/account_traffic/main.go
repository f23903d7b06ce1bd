// Command account_traffic drives deposits and withdrawals against the MySQL
// account store so the binlog consumer has row events to report.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"account-playground/internal/config"
	"account-playground/internal/db"
	"account-playground/internal/logger"
	"account-playground/internal/service"
	"account-playground/models"
	"account-playground/repository"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()
	dbConn, err := db.Connect(ctx, cfg.DatabaseDSN, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbConn.Close()

	if err := repository.EnsureSchema(ctx, dbConn); err != nil {
		zl.Fatal("failed to ensure schema", zap.Error(err))
	}
	repo := repository.NewMySQLAccountRepository(dbConn)
	accounts := service.NewAccountService(repo, zl)
	transactions := service.NewTransactionService(repo, zl)

	acc, err := accounts.CreateAccount(ctx, 1, "Traffic Generator", "traffic@example.com", "0000000000")
	if err != nil {
		zl.Fatal("failed to create account", zap.Error(err))
	}
	time.Sleep(2 * time.Second)

	steps := []struct {
		kind   models.TransactionKind
		amount float64
	}{
		{models.KindDeposit, 100},
		{models.KindWithdraw, 30},
		{models.KindWithdraw, 500}, // rejected, no row event expected
		{models.KindDeposit, 12.5},
	}
	for _, step := range steps {
		balance, err := transactions.MakeTransaction(ctx, acc.AccountID, step.amount, step.kind)
		if errors.Is(err, models.ErrInsufficientFunds) {
			zl.Info("withdrawal rejected", zap.Float64("amount", step.amount))
			continue
		}
		if err != nil {
			zl.Fatal("transaction failed", zap.Error(err))
		}
		zl.Info("balance updated", zap.String("account_number", acc.AccountNumber), zap.Float64("balance", balance))
		time.Sleep(2 * time.Second)
	}

	zl.Info("traffic completed, check the binlog consumer for matching events")
}
