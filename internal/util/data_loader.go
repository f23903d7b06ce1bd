package util

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"account-playground/models"

	"go.uber.org/zap"
)

// DataLoader defines the interface for loading transaction batches.
type DataLoader interface {
	LoadTransactions(filePath string) ([]models.TransactionRequest, error)
}

// csvDataLoader implements DataLoader for CSV files with the header
// account_id,amount,kind.
type csvDataLoader struct {
	logger *zap.Logger
}

// NewCSVDataLoader creates a new CSV data loader.
func NewCSVDataLoader(logger *zap.Logger) DataLoader {
	return &csvDataLoader{logger: logger}
}

// LoadTransactions reads transaction requests from a CSV file. Rows that cannot
// be parsed, quoting errors included, are skipped with a warning. An unterminated
// quote swallows the rest of the file. The kind column is not checked here.
func (l *csvDataLoader) LoadTransactions(filePath string) ([]models.TransactionRequest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("LoadTransactions: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	return l.readTransactions(file)
}

func (l *csvDataLoader) readTransactions(r io.Reader) ([]models.TransactionRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	_, err := reader.Read() // Skip header row
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.TransactionRequest{}, nil
		}
		return nil, fmt.Errorf("LoadTransactions: failed to read header: %w", err)
	}

	transactions := make([]models.TransactionRequest, 0)
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				l.logger.Warn("skipping unparsable CSV record", zap.Int("line", parseErr.StartLine), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("LoadTransactions: error reading record: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) < 3 {
			l.logger.Warn("skipping malformed CSV record", zap.Int("line", line), zap.Strings("record", record))
			continue
		}

		accountID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			l.logger.Warn("skipping record with invalid account id", zap.Int("line", line), zap.String("value", record[0]), zap.Error(err))
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			l.logger.Warn("skipping record with invalid amount", zap.Int("line", line), zap.String("value", record[1]), zap.Error(err))
			continue
		}

		transactions = append(transactions, models.TransactionRequest{
			AccountID: accountID,
			Amount:    amount,
			Kind:      models.ParseTransactionKind(record[2]),
			Line:      line,
		})
	}
	return transactions, nil
}
