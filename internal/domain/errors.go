package domain

import (
	"errors"
	"fmt"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrInsufficientBalance() *AppError {
	return &AppError{Code: "INSUFFICIENT_BALANCE", Message: "insufficient cash balance", Status: 400}
}

// ErrMissingLedgerAccount marks a credit against an account with no balance
// record. Fatal and non-retryable for the mutation until the record is
// repaired externally.
func ErrMissingLedgerAccount(accountID string) *AppError {
	return &AppError{Code: "MISSING_LEDGER_ACCOUNT", Message: fmt.Sprintf("no ledger account for %s", accountID), Status: 500}
}

// ErrHierarchyCycle marks a cyclic or over-deep upline chain. Fatal
// configuration error for the affected slip.
func ErrHierarchyCycle(accountID string) *AppError {
	return &AppError{Code: "HIERARCHY_CYCLE", Message: fmt.Sprintf("upline chain for %s exceeds depth bound or cycles", accountID), Status: 500}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}

// ErrorCode extracts the AppError code from an error chain, or "" if none.
func ErrorCode(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ""
}

// IsMissingLedgerAccount reports whether the error chain contains a
// MISSING_LEDGER_ACCOUNT failure.
func IsMissingLedgerAccount(err error) bool {
	return ErrorCode(err) == "MISSING_LEDGER_ACCOUNT"
}

// IsHierarchyCycle reports whether the error chain contains a hierarchy
// configuration failure.
func IsHierarchyCycle(err error) bool {
	return ErrorCode(err) == "HIERARCHY_CYCLE"
}
