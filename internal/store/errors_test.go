package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrCustomerNotFound", err: ErrCustomerNotFound, expected: true},
		{name: "wrapped ErrItemNotFound", err: fmt.Errorf("lock items: %w", ErrItemNotFound), expected: true},
		{name: "ErrTransactionNotFound", err: ErrTransactionNotFound, expected: true},
		{name: "duplicate is not not-found", err: ErrEmailExists, expected: false},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrUsernameExists, ErrEmailExists, ErrPhoneExists, ErrItemNameExists, ErrReviewExists} {
		assert.True(t, IsDuplicateError(err), err.Error())
		assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", err)), err.Error())
	}
	assert.False(t, IsDuplicateError(ErrReviewNotFound))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("item", "lock", "failed to lock rows", cause)

	assert.Equal(t, "lock operation on item failed: failed to lock rows: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("customer", "update", "no rows", nil)
	assert.Equal(t, "update operation on customer failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestMissingItemError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("lock items: %w", &MissingItemError{Ref: "Olive Oil"})
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	var missing *MissingItemError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, `item "Olive Oil" not found`, missing.Error())
}
