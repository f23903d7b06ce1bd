package models

import (
	"fmt"
	"math"
)

// Account is a balance-holding record tied to one customer.
// Balance never goes negative; Deposit and Withdraw are the only guards.
type Account struct {
	AccountID     int64
	CustomerID    int64 // reference only, the customer is not retained
	AccountNumber string
	Balance       float64
}

// FormatAccountNumber renders an account id as ACCT-00001.
func FormatAccountNumber(accountID int64) string {
	return fmt.Sprintf("ACCT-%05d", accountID)
}

// NewAccount builds an empty account for the given customer.
func NewAccount(accountID, customerID int64) *Account {
	return &Account{
		AccountID:     accountID,
		CustomerID:    customerID,
		AccountNumber: FormatAccountNumber(accountID),
	}
}

// Deposit adds a positive amount and returns the new balance.
func (a *Account) Deposit(amount float64) (float64, error) {
	if !positive(amount) {
		return a.Balance, fmt.Errorf("Deposit: amount must be positive: %w", ErrInvalidArgument)
	}
	if math.IsInf(a.Balance+amount, 0) {
		return a.Balance, fmt.Errorf("Deposit: balance would overflow: %w", ErrInvalidArgument)
	}
	a.Balance += amount
	return a.Balance, nil
}

// Withdraw removes a positive amount no larger than the balance and returns the new balance.
func (a *Account) Withdraw(amount float64) (float64, error) {
	if !positive(amount) {
		return a.Balance, fmt.Errorf("Withdraw: amount must be positive: %w", ErrInvalidArgument)
	}
	if amount > a.Balance {
		return a.Balance, fmt.Errorf("Withdraw: account %d (Balance: %.2f, Amount: %.2f): %w", a.AccountID, a.Balance, amount, ErrInsufficientFunds)
	}
	a.Balance -= amount
	return a.Balance, nil
}

func (a *Account) GetBalance() float64 {
	return a.Balance
}

// positive rejects zero, negatives, NaN and infinities.
func positive(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 1)
}
