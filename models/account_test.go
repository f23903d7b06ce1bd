package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	acc := NewAccount(1, 42)
	assert.Equal(t, int64(1), acc.AccountID)
	assert.Equal(t, int64(42), acc.CustomerID)
	assert.Equal(t, "ACCT-00001", acc.AccountNumber)
	assert.Equal(t, 0.0, acc.GetBalance())
}

func TestFormatAccountNumber(t *testing.T) {
	assert.Equal(t, "ACCT-00002", FormatAccountNumber(2))
	assert.Equal(t, "ACCT-12345", FormatAccountNumber(12345))
	assert.Equal(t, "ACCT-123456", FormatAccountNumber(123456))
}

func TestDeposit_IncreasesBalanceByAmount(t *testing.T) {
	acc := NewAccount(1, 1)
	for _, amount := range []float64{0.01, 1, 100, 2500.75} {
		before := acc.GetBalance()
		got, err := acc.Deposit(amount)
		require.NoError(t, err)
		assert.InDelta(t, before+amount, got, 1e-9)
		assert.Equal(t, got, acc.GetBalance())
	}
}

func TestNonPositiveAmounts_AreRejected(t *testing.T) {
	acc := NewAccount(1, 1)
	_, err := acc.Deposit(50)
	require.NoError(t, err)

	for _, amount := range []float64{0, -0.01, -100} {
		_, err := acc.Deposit(amount)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = acc.Withdraw(amount)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		assert.Equal(t, 50.0, acc.GetBalance(), "balance must not change for amount %v", amount)
	}
}

func TestWithdraw(t *testing.T) {
	acc := NewAccount(1, 1)
	_, err := acc.Deposit(100)
	require.NoError(t, err)

	got, err := acc.Withdraw(50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)

	// whole balance may be withdrawn
	got, err = acc.Withdraw(50)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	acc := NewAccount(1, 1)
	_, err := acc.Deposit(50)
	require.NoError(t, err)

	for _, amount := range []float64{50.01, 1000} {
		_, err := acc.Withdraw(amount)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.NotErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, 50.0, acc.GetBalance())
	}
}

func TestBalanceNeverNegative(t *testing.T) {
	acc := NewAccount(1, 1)
	ops := []struct {
		kind   TransactionKind
		amount float64
	}{
		{KindDeposit, 10}, {KindWithdraw, 15}, {KindWithdraw, 10}, {KindWithdraw, 1},
		{KindDeposit, 3.5}, {KindWithdraw, -2}, {KindWithdraw, 3.5}, {KindDeposit, 0},
	}
	for _, op := range ops {
		if op.kind == KindDeposit {
			_, _ = acc.Deposit(op.amount)
		} else {
			_, _ = acc.Withdraw(op.amount)
		}
		assert.GreaterOrEqual(t, acc.GetBalance(), 0.0)
	}
	assert.Equal(t, 0.0, acc.GetBalance())
}

func TestParseTransactionKind(t *testing.T) {
	assert.Equal(t, KindDeposit, ParseTransactionKind(" Deposit "))
	assert.Equal(t, KindWithdraw, ParseTransactionKind("WITHDRAW"))
	assert.Equal(t, TransactionKind("transfer"), ParseTransactionKind("transfer"))
}

func TestNewCustomer(t *testing.T) {
	c := NewCustomer(1, "Juan Dela Cruz", "not-an-email", "09561543429")
	assert.Equal(t, Customer{CustomerID: 1, Name: "Juan Dela Cruz", Email: "not-an-email", PhoneNumber: "09561543429"}, c)
}

func TestNonFiniteAmounts_AreRejected(t *testing.T) {
	acc := NewAccount(1, 1)
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := acc.Deposit(amount)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = acc.Withdraw(amount)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	assert.Equal(t, 0.0, acc.GetBalance())
}

func TestDeposit_OverflowIsRejected(t *testing.T) {
	acc := NewAccount(1, 1)
	_, err := acc.Deposit(math.MaxFloat64)
	require.NoError(t, err)

	balance, err := acc.Deposit(math.MaxFloat64)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, math.MaxFloat64, balance)
	assert.False(t, math.IsInf(acc.GetBalance(), 0))
}
