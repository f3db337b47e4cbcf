package domain

import "errors"

var (
	// Transfer errors
	ErrTransferAmountNegative      = errors.New("transfer amount cannot be negative")
	ErrTransferNotAllowed          = errors.New("transfer not allowed")
	ErrMismatchedCurrencies        = errors.New("cannot transfer between different currencies")
	ErrAccountWouldBeSentNegative  = errors.New("account balance would be sent negative")
	ErrTransferCodeTooLong         = errors.New("transfer code is too long")
	ErrDuplicateTransferDefinition = errors.New("transfer definition already registered")

	// Account errors
	ErrUnknownAccount             = errors.New("unknown account")
	ErrDuplicateAccountDefinition = errors.New("account definition already registered")
	ErrAccountIdentifierTooLong   = errors.New("account identifier is too long")
	ErrScopeIdentifierTooLong     = errors.New("scope identifier is too long")
	ErrAccountScopeMismatch       = errors.New("account scope mismatch")
	ErrAccountNotFound            = errors.New("account balance not found")

	// Line errors
	ErrLineNotFound = errors.New("line not found")
)
