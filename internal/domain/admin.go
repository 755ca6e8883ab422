package domain

import "time"

// Admin is an operator account. Admins have no balances and cannot be banned.
type Admin struct {
	ID           int64
	Profile      Profile
	PasswordHash string
	LastLogout   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAdmin builds an admin from a profile and a password hash.
func NewAdmin(profile Profile, passwordHash string, now time.Time) (*Admin, error) {
	phone, err := NormalizePhone(profile.Phone)
	if err != nil {
		return nil, err
	}
	profile.Phone = phone

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, NewValidationError("password", "hash is required", nil)
	}

	now = now.UTC()
	return &Admin{
		Profile:      profile,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
