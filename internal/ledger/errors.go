package ledger

import "errors"

// Sentinel errors for operation failures. Callers match with errors.Is; the
// wrapped message carries the specifics.
var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrInvalidOwner           = errors.New("invalid owner name")
	ErrInvalidLimits          = errors.New("invalid account limits")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrAccountNotActive       = errors.New("account not active")
	ErrAccountClosed          = errors.New("account closed")
	ErrAccountNotEmpty        = errors.New("account balance must be zero")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrMaxBalanceExceeded     = errors.New("maximum balance exceeded")
	ErrMaxTransactionExceeded = errors.New("transaction limit exceeded")
	ErrSameAccount            = errors.New("source and destination are the same account")
)
