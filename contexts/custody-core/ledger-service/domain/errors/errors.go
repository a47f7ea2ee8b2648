package errors

import "errors"

var (
	ErrOverdraft      = errors.New("balance is insufficient for the operation")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrInvalidContext = errors.New("balance context is unknown")
	ErrAmountOverflow = errors.New("distribution amounts overflow")
	ErrInvalidInput   = errors.New("ledger input is invalid")
)
