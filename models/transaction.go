package models

import "strings"

// TransactionKind selects which balance operation a transaction applies.
type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
)

// TransactionRequest is one deposit or withdrawal to apply to an account.
type TransactionRequest struct {
	AccountID int64
	Amount    float64
	Kind      TransactionKind
	Line      int // source line when loaded from a file, 0 otherwise
}

// ParseTransactionKind normalizes case and surrounding space. Unknown kinds are
// returned as-is so the caller can reject them.
func ParseTransactionKind(s string) TransactionKind {
	return TransactionKind(strings.ToLower(strings.TrimSpace(s)))
}

// AccountChange is a balance change observed on the accounts table.
type AccountChange struct {
	Action        string // INSERT, UPDATE or DELETE
	AccountID     int64
	AccountNumber string
	BalanceBefore float64
	BalanceAfter  float64
}
