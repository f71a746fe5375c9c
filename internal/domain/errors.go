package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrOutOfStock         = errors.New("movie not in stock")
	ErrAlreadyProcessed   = errors.New("return already processed")
	ErrRentalAlreadyOpen  = errors.New("rental already open for customer and movie")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrTransactionFailed  = errors.New("transaction failed")
	ErrEmailTaken         = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("access denied, no token provided")
	ErrForbidden          = errors.New("access denied")
)

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%q %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidReferenceError names the entity ("customer", "movie", "genre") that a
// request pointed at but that does not exist.
type InvalidReferenceError struct {
	Entity string
}

func NewInvalidReference(entity string) error {
	return &InvalidReferenceError{Entity: entity}
}

func (e *InvalidReferenceError) Error() string {
	return "invalid " + e.Entity
}

func (e *InvalidReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

// TransactionError wraps a persistence failure that caused a unit of work to
// roll back.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func (e *TransactionError) Is(target error) bool {
	return target == ErrTransactionFailed
}

func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	if n < min || n > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("length must be between %d and %d", min, max)}
	}
	return nil
}
