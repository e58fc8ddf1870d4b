package services

import "errors"

// Business-rule errors. These are surfaced to the caller as-is and are never
// retried internally.
var (
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrSameAccount         = errors.New("from and to accounts must differ")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNotActive    = errors.New("account not active")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransferNotFound    = errors.New("transfer not found")
)

// ErrRequestInProgress signals that a concurrent attempt with the same
// idempotency token is already executing. The caller should retry later.
var ErrRequestInProgress = errors.New("request is already in progress")

// IsValidationError reports whether err is a violated business precondition.
// Anything else that escapes the engine is a conflict or an infrastructure
// failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrAmountNotPositive,
		ErrSameAccount,
		ErrAccountNotFound,
		ErrAccountNotActive,
		ErrCurrencyMismatch,
		ErrInsufficientBalance,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflictError reports whether err is an idempotency in-flight conflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrRequestInProgress)
}
