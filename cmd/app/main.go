package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"account-playground/internal/config"
	"account-playground/internal/db"
	"account-playground/internal/logger"
	"account-playground/internal/service"
	"account-playground/internal/util"
	"account-playground/models"
	"account-playground/repository"

	"go.uber.org/zap"
)

type app struct {
	cfg          *config.Config
	accountRepo  repository.AccountRepository
	accounts     service.AccountService
	transactions service.TransactionService
	statements   service.StatementService
	batch        service.BatchTransactionService
}

func scenarioDemo(ctx context.Context, a *app) error {
	newAccount, err := a.accounts.CreateAccount(ctx, 1, "Juan Dela Cruz", "juandelacruz@example.com", "09561543429")
	if err != nil {
		return err
	}
	fmt.Printf("Created Account: %s with initial balance: %s\n", newAccount.AccountNumber, service.FormatBalance(newAccount.GetBalance()))

	newBalance, err := a.transactions.MakeTransaction(ctx, newAccount.AccountID, 100.0, models.KindDeposit)
	if err != nil {
		return err
	}
	fmt.Printf("New Balance after deposit: %s\n", service.FormatBalance(newBalance))

	newBalance, err = a.transactions.MakeTransaction(ctx, newAccount.AccountID, 50.0, models.KindWithdraw)
	if err != nil {
		return err
	}
	fmt.Printf("New Balance after withdrawal: %s\n", service.FormatBalance(newBalance))

	statement, err := a.statements.GenerateAccountStatement(ctx, newAccount.AccountID)
	if err != nil {
		return err
	}
	fmt.Println("Account Statement:")
	fmt.Println(statement)
	return nil
}

func insufficientFundsDemo(ctx context.Context, a *app) error {
	acc, err := a.accounts.CreateAccount(ctx, 2, "Maria Clara", "mariaclara@example.com", "09171234567")
	if err != nil {
		return err
	}
	if _, err := a.transactions.MakeTransaction(ctx, acc.AccountID, 50.0, models.KindDeposit); err != nil {
		return err
	}

	_, err = a.transactions.MakeTransaction(ctx, acc.AccountID, 1000.0, models.KindWithdraw)
	switch {
	case errors.Is(err, models.ErrInsufficientFunds):
		fmt.Println("User Message: The withdrawal could not be completed due to insufficient funds.")
	case err != nil:
		return err
	}

	statement, err := a.statements.GenerateAccountStatement(ctx, acc.AccountID)
	if err != nil {
		return err
	}
	fmt.Print(statement)
	return nil
}

func customerAccountsDemo(ctx context.Context, a *app) error {
	const customerID = 3
	for i := 0; i < 2; i++ {
		if _, err := a.accounts.CreateAccount(ctx, customerID, "Jose Rizal", "joserizal@example.com", "09998887777"); err != nil {
			return err
		}
	}
	accounts, err := a.accountRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	fmt.Printf("Customer %d owns %d account(s):\n", customerID, len(accounts))
	for _, acc := range accounts {
		fmt.Printf("  %s  balance %s\n", acc.AccountNumber, service.FormatBalance(acc.GetBalance()))
	}
	return nil
}

func batchDemo(ctx context.Context, a *app) error {
	if a.cfg.TransactionsCSV == "" {
		fmt.Println("TRANSACTIONS_CSV is not set, nothing to apply.")
		return nil
	}
	report, err := a.batch.ApplyFile(ctx, a.cfg.TransactionsCSV)
	if err != nil {
		return err
	}
	return report.Write(os.Stdout)
}

func newApp(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*app, func(), error) {
	cleanup := func() {}

	var accountRepo repository.AccountRepository
	switch cfg.StorageBackend {
	case config.BackendMySQL:
		dbConn, err := db.Connect(ctx, cfg.DatabaseDSN, zl)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { dbConn.Close() }
		if err := repository.EnsureSchema(ctx, dbConn); err != nil {
			return nil, cleanup, err
		}
		accountRepo = repository.NewMySQLAccountRepository(dbConn)
	default:
		accountRepo = repository.NewInMemoryAccountRepository()
	}

	transactions := service.NewTransactionService(accountRepo, zl)
	return &app{
		cfg:          cfg,
		accountRepo:  accountRepo,
		accounts:     service.NewAccountService(accountRepo, zl),
		transactions: transactions,
		statements:   service.NewStatementService(accountRepo),
		batch:        service.NewBatchTransactionService(transactions, util.NewCSVDataLoader(zl), zl),
	}, cleanup, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Main: invalid configuration: %v", err)
	}
	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Main: failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()
	a, cleanup, err := newApp(ctx, cfg, zl)
	defer cleanup()
	if err != nil {
		zl.Fatal("failed to initialise application", zap.Error(err))
	}

	demos := map[string]func(context.Context, *app) error{
		"scenario":           scenarioDemo,
		"insufficient_funds": insufficientFundsDemo,
		"customer_accounts":  customerAccountsDemo,
		"batch":              batchDemo,
	}
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)

	choice := "scenario"
	if len(os.Args) > 1 {
		choice = os.Args[1]
	}

	run := func(name string) {
		fmt.Printf("\n--- Running Demo: %s ---\n", name)
		if err := demos[name](ctx, a); err != nil {
			zl.Fatal("demo failed", zap.String("demo", name), zap.Error(err))
		}
		fmt.Printf("--- Finished Demo: %s ---\n", name)
	}

	switch choice {
	case "all":
		for _, name := range names {
			run(name)
		}
	case "list":
		fmt.Println("Available Demos:")
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
	default:
		if _, ok := demos[choice]; !ok {
			fmt.Printf("Unknown demo: %s\n", choice)
			os.Exit(2)
		}
		run(choice)
	}
}
