package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// RegisterInput is what a new customer or admin supplies.
type RegisterInput struct {
	Profile  domain.Profile
	Password string
}

// normalized trims the profile and lowercases the email.
func (in RegisterInput) normalized() RegisterInput {
	p := in.Profile
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	in.Profile = p
	return in
}

// accountLookup finds accounts of one role by each of their unique fields.
type accountLookup[T any] struct {
	byID       func(ctx context.Context, id int64) (T, error)
	byEmail    func(ctx context.Context, email string) (T, error)
	byPhone    func(ctx context.Context, phone string) (T, error)
	byUsername func(ctx context.Context, username string) (T, error)
}

// find resolves a login identifier. Emails and formatted phones match only
// their own column. A digit string is tried as an ID, then as a phone when it
// has 8 digits, then as a username. Anything else is a username.
func (l accountLookup[T]) find(ctx context.Context, identifier string) (T, error) {
	var zero T
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return zero, store.ErrNotFound
	}

	var attempts []func() (T, error)
	switch {
	case strings.Contains(identifier, "@"):
		attempts = append(attempts, func() (T, error) { return l.byEmail(ctx, identifier) })
	case domain.IsPhoneLike(identifier) && strings.HasPrefix(identifier, "+"):
		attempts = append(attempts, func() (T, error) { return l.byPhone(ctx, identifier) })
	default:
		if id, err := strconv.ParseInt(identifier, 10, 64); err == nil && id > 0 {
			attempts = append(attempts, func() (T, error) { return l.byID(ctx, id) })
		}
		if domain.IsPhoneLike(identifier) {
			attempts = append(attempts, func() (T, error) {
				phone, err := domain.NormalizePhone(identifier)
				if err != nil {
					return zero, store.ErrNotFound
				}
				return l.byPhone(ctx, phone)
			})
		}
		attempts = append(attempts, func() (T, error) { return l.byUsername(ctx, identifier) })
	}

	for _, attempt := range attempts {
		account, err := attempt()
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return zero, err
		}
	}
	return zero, store.ErrNotFound
}
