package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"account-playground/internal/binlog"
	"account-playground/internal/config"
	"account-playground/internal/db"
	"account-playground/internal/logger"
	"account-playground/models"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if cfg.ReplicatorPassword == "" {
		log.Fatalf("MYSQL_REPLICATOR_PASSWORD not set in .env file")
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start from the live master position. A restartable consumer would persist
	// the last processed position instead.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/", cfg.ReplicatorUser, cfg.ReplicatorPassword, cfg.MySQLHost, cfg.MySQLPort)
	dbConn, err := db.Connect(ctx, dsn, zl)
	if err != nil {
		zl.Fatal("failed to connect to MySQL", zap.Error(err))
	}
	pos, err := binlog.CurrentPosition(ctx, dbConn)
	dbConn.Close()
	if err != nil {
		zl.Fatal("failed to get master status", zap.Error(err))
	}

	watcher := binlog.NewWatcher(binlog.Config{
		ServerID: cfg.BinlogServerID,
		Host:     cfg.MySQLHost,
		Port:     cfg.MySQLPort,
		User:     cfg.ReplicatorUser,
		Password: cfg.ReplicatorPassword,
		Schema:   cfg.AccountsSchema,
	}, zl)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		zl.Info("shutdown signal received, stopping syncer")
		cancel()
		watcher.Close()
	}()

	err = watcher.Run(ctx, pos, func(c models.AccountChange) {
		zl.Info("account balance changed",
			zap.String("action", c.Action),
			zap.Int64("account_id", c.AccountID),
			zap.String("account_number", c.AccountNumber),
			zap.Float64("before", c.BalanceBefore),
			zap.Float64("after", c.BalanceAfter),
		)
	})
	if err != nil {
		zl.Fatal("binlog watcher stopped", zap.Error(err))
	}
}
