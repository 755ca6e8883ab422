package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Role distinguishes the two kinds of account that can hold a token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Gender values accepted on a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// MaritalStatus values accepted on a profile.
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

// Account limits.
const (
	MinAge            = 18
	MaxAge            = 150
	MinPasswordLength = 8
	MaxPasswordLength = 72
	PhoneDigits       = 8
)

var (
	usernamePattern  = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	rawPhonePattern  = regexp.MustCompile(`^\d{8}$`)
	fullPhonePattern = regexp.MustCompile(`^\+961-\d{2}-\d{3}-\d{3}$`)
)

// Profile holds the personal details shared by customers and admins.
type Profile struct {
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	Age           int
	Gender        Gender
	MaritalStatus MaritalStatus
}

// NormalizePhone accepts either 8 bare digits or an already formatted
// number and returns the stored form "+961-XX-XXX-XXX".
func NormalizePhone(input string) (string, error) {
	s := strings.TrimSpace(input)
	if fullPhonePattern.MatchString(s) {
		return s, nil
	}
	if !rawPhonePattern.MatchString(s) {
		return "", NewValidationError("phone", "must be exactly 8 digits", nil)
	}
	return fmt.Sprintf("+961-%s-%s-%s", s[:2], s[2:5], s[5:]), nil
}

// IsPhoneLike reports whether s looks like a phone number in either accepted form.
func IsPhoneLike(s string) bool {
	return rawPhonePattern.MatchString(s) || fullPhonePattern.MatchString(s)
}

// ValidatePassword enforces the password length limits.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength), nil)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password", fmt.Sprintf("must be at most %d characters", MaxPasswordLength), nil)
	}
	return nil
}

// Validate checks every profile field. Phone must already be normalized.
func (p *Profile) Validate() error {
	if !usernamePattern.MatchString(p.Username) {
		return NewValidationError("username", "must be 3-50 letters, digits or underscores", nil)
	}
	if !emailPattern.MatchString(p.Email) {
		return NewValidationError("email", "is not a valid address", nil)
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return NewValidationError("first_name", "is required", nil)
	}
	if strings.TrimSpace(p.LastName) == "" {
		return NewValidationError("last_name", "is required", nil)
	}
	if !fullPhonePattern.MatchString(p.Phone) {
		return NewValidationError("phone", "must be formatted as +961-XX-XXX-XXX", nil)
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return NewValidationError("age", fmt.Sprintf("must be between %d and %d", MinAge, MaxAge), nil)
	}
	switch p.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return NewValidationError("gender", "must be male, female or other", nil)
	}
	switch p.MaritalStatus {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed:
	default:
		return NewValidationError("marital_status", "must be single, married, divorced or widowed", nil)
	}
	return nil
}

// ProfileUpdate carries a partial profile change. Nil fields are left alone.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	Phone         *string
	Age           *int
	Gender        *Gender
	MaritalStatus *MaritalStatus
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil &&
		u.Age == nil && u.Gender == nil && u.MaritalStatus == nil
}

// Apply writes the update onto p and validates the result.
func (u ProfileUpdate) Apply(p *Profile) error {
	if u.Empty() {
		return NewValidationError("profile", "at least one field must be provided", nil)
	}

	next := *p
	if u.FirstName != nil {
		next.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		next.LastName = strings.TrimSpace(*u.LastName)
	}
	if u.Phone != nil {
		phone, err := NormalizePhone(*u.Phone)
		if err != nil {
			return err
		}
		next.Phone = phone
	}
	if u.Age != nil {
		next.Age = *u.Age
	}
	if u.Gender != nil {
		next.Gender = *u.Gender
	}
	if u.MaritalStatus != nil {
		next.MaritalStatus = *u.MaritalStatus
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}
