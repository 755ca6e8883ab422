package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants below wrap it, so errors.Is(err, ErrNotFound)
	// matches all of them.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness rule.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when the database rejects a row because of a
	// foreign key, check or not-null constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	ErrCustomerNotFound    = fmt.Errorf("%w: customer", ErrNotFound)
	ErrAdminNotFound       = fmt.Errorf("%w: admin", ErrNotFound)
	ErrItemNotFound        = fmt.Errorf("%w: item", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)
	ErrReviewNotFound      = fmt.Errorf("%w: review", ErrNotFound)

	// Entity-specific "duplicate" errors. The message names the clashing field
	// because it is shown to the caller.

	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)
	ErrEmailExists    = fmt.Errorf("%w: email", ErrDuplicate)
	ErrPhoneExists    = fmt.Errorf("%w: phone", ErrDuplicate)
	ErrItemNameExists = fmt.Errorf("%w: item name", ErrDuplicate)
	ErrReviewExists   = fmt.Errorf("%w: review for this item", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "customer", "item")
	Operation string // The operation that failed (e.g., "create", "lock")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// MissingItemError names an item reference that matched no row. It matches
// ErrItemNotFound under errors.Is.
type MissingItemError struct {
	Ref string
}

func (e *MissingItemError) Error() string {
	return fmt.Sprintf("item %q not found", e.Ref)
}

func (e *MissingItemError) Unwrap() error {
	return ErrItemNotFound
}
