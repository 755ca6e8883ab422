package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is usually reached through a *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInsufficientStock is returned when an item cannot cover a requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientBalance is returned when a customer cannot pay a total.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCustomerBanned is returned when a banned customer attempts a customer-only action.
	ErrCustomerBanned = errors.New("customer is banned")

	// ErrCustomerInactive is returned when an operation requires an active customer.
	ErrCustomerInactive = errors.New("customer is not active")

	// ErrAlreadyReversed is returned when reversing a transaction twice.
	ErrAlreadyReversed = errors.New("transaction already reversed")

	// ErrReversalWindowClosed is returned when a transaction is too old to reverse.
	ErrReversalWindowClosed = errors.New("reversal window closed")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError. err may be nil, in which case
// only ErrValidation is matched by errors.Is.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Message)
}

// Unwrap exposes both ErrValidation and the specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// InsufficientStockError names the item that could not cover a purchase.
type InsufficientStockError struct {
	ItemID    int64
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("item %d (%s) has only %d left in stock, %d requested",
		e.ItemID, e.ItemName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// InsufficientBalanceError names the currency a customer could not pay in.
type InsufficientBalanceError struct {
	Currency  Currency
	Required  string
	Available string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: required %s, available %s",
		e.Currency, e.Required, e.Available)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
