package service

import "errors"

// Common service errors. Callers check them with errors.Is and the API layer
// maps them to HTTP status codes.
var (
	// ErrInvalidCredentials is returned for an unknown identifier or a wrong
	// password, without saying which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotOwned indicates a resource is owned by a different account than the one making the request.
	ErrNotOwned = errors.New("resource is owned by another customer")

	// ErrItemNotPurchased is returned when a customer reviews an item that is
	// not in any of their completed transactions.
	ErrItemNotPurchased = errors.New("item has not been purchased by this customer")

	// ErrForbiddenRole is returned when a token's role does not match the route.
	ErrForbiddenRole = errors.New("role not permitted for this operation")

	// ErrAccountNotFound is returned when a valid token names an account that no longer exists.
	ErrAccountNotFound = errors.New("account no longer exists")
)
