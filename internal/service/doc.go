// Package service contains the storefront use cases: account sessions,
// customer management, inventory, reviews and sales. Services coordinate
// domain objects and the store interfaces, own transaction boundaries, and
// return sentinel errors that the API layer maps to HTTP statuses.
//
// Services depend on store interfaces only, never on a concrete database.
package service
