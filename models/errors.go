package models

import "errors"

var ErrInvalidArgument = errors.New("invalid argument")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrNotFound = errors.New("account not found")
