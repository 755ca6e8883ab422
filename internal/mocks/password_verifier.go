package mocks

import (
	"errors"
	"sync"
)

// MockPasswordVerifier implements auth.PasswordVerifier and auth.PasswordHasher for testing.
// Its default hash is "hashed:" + password and Compare accepts exactly that.
type MockPasswordVerifier struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	mu               sync.Mutex
	CompareCallCount int
}

// ErrPasswordMismatch is returned by the default Compare on a mismatch.
var ErrPasswordMismatch = errors.New("password mismatch")

// Hash implements auth.PasswordHasher.
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.CompareCallCount++
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return ErrPasswordMismatch
}
