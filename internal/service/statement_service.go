package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"account-playground/repository"
)

// StatementService renders account statements.
type StatementService interface {
	GenerateAccountStatement(ctx context.Context, accountID int64) (string, error)
}

// statementServiceImpl implements StatementService.
type statementServiceImpl struct {
	accountRepo repository.AccountRepository
}

// NewStatementService creates a new statement service.
func NewStatementService(accountRepo repository.AccountRepository) StatementService {
	return &statementServiceImpl{accountRepo: accountRepo}
}

// GenerateAccountStatement returns the id, number and balance of an account, one per line.
func (s *statementServiceImpl) GenerateAccountStatement(ctx context.Context, accountID int64) (string, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("GenerateAccountStatement: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Account ID: %d\n", account.AccountID)
	fmt.Fprintf(&b, "Account Number: %s\n", account.AccountNumber)
	fmt.Fprintf(&b, "Balance: %s\n", FormatBalance(account.GetBalance()))
	return b.String(), nil
}

// FormatBalance prints the shortest decimal that round-trips, always with a
// fractional part: 50 -> "50.0", 12.25 -> "12.25". NaN and infinities print as is.
func FormatBalance(balance float64) string {
	s := strconv.FormatFloat(balance, 'f', -1, 64)
	if math.IsInf(balance, 0) || math.IsNaN(balance) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
