package service

import (
	"context"
	"fmt"
	"io"

	"account-playground/internal/util"
	"account-playground/models"

	"go.uber.org/zap"
)

// AppliedTransaction is a batch row that went through.
type AppliedTransaction struct {
	Request models.TransactionRequest
	Balance float64
}

// FailedTransaction is a batch row that was rejected. Rejected rows leave the balance unchanged.
type FailedTransaction struct {
	Request models.TransactionRequest
	Err     error
}

// BatchReport summarizes one batch run in file order.
type BatchReport struct {
	Applied []AppliedTransaction
	Failed  []FailedTransaction
}

// BatchTransactionService applies transaction files through the TransactionService.
type BatchTransactionService interface {
	ApplyFile(ctx context.Context, csvFilePath string) (*BatchReport, error)
	Apply(ctx context.Context, requests []models.TransactionRequest) *BatchReport
}

// batchTransactionServiceImpl implements BatchTransactionService.
type batchTransactionServiceImpl struct {
	transactions TransactionService
	dataLoader   util.DataLoader
	logger       *zap.Logger
}

// NewBatchTransactionService creates a new batch transaction service.
func NewBatchTransactionService(transactions TransactionService, dataLoader util.DataLoader, logger *zap.Logger) BatchTransactionService {
	return &batchTransactionServiceImpl{
		transactions: transactions,
		dataLoader:   dataLoader,
		logger:       logger,
	}
}

// ApplyFile loads a CSV batch and applies it row by row.
func (s *batchTransactionServiceImpl) ApplyFile(ctx context.Context, csvFilePath string) (*BatchReport, error) {
	requests, err := s.dataLoader.LoadTransactions(csvFilePath)
	if err != nil {
		return nil, fmt.Errorf("ApplyFile: %w", err)
	}
	s.logger.Info("loaded transaction batch", zap.String("file", csvFilePath), zap.Int("rows", len(requests)))
	return s.Apply(ctx, requests), nil
}

// Apply runs every request in order. A failed row does not stop the batch.
func (s *batchTransactionServiceImpl) Apply(ctx context.Context, requests []models.TransactionRequest) *BatchReport {
	report := &BatchReport{}
	for _, req := range requests {
		balance, err := s.transactions.MakeTransaction(ctx, req.AccountID, req.Amount, req.Kind)
		if err != nil {
			s.logger.Warn("batch transaction rejected",
				zap.Int("line", req.Line),
				zap.Int64("account_id", req.AccountID),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, FailedTransaction{Request: req, Err: err})
			continue
		}
		report.Applied = append(report.Applied, AppliedTransaction{Request: req, Balance: balance})
	}
	return report
}

// Write renders the report as plain text.
func (r *BatchReport) Write(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("--- Transaction Batch Report ---\n")

	ew.printf("\n[Applied Transactions]\n")
	if len(r.Applied) == 0 {
		ew.printf("  None\n")
	}
	for _, a := range r.Applied {
		ew.printf("  Line %d: account %d %s %s -> balance %s\n",
			a.Request.Line, a.Request.AccountID, a.Request.Kind, FormatBalance(a.Request.Amount), FormatBalance(a.Balance))
	}

	ew.printf("\n[Rejected Transactions]\n")
	if len(r.Failed) == 0 {
		ew.printf("  None\n")
	}
	for _, f := range r.Failed {
		ew.printf("  Line %d: account %d %s %s: %v\n",
			f.Request.Line, f.Request.AccountID, f.Request.Kind, FormatBalance(f.Request.Amount), f.Err)
	}

	ew.printf("\n--- End of Transaction Batch Report ---\n")
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
