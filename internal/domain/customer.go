package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerStatus is either active or banned.
type CustomerStatus string

const (
	CustomerActive CustomerStatus = "active"
	CustomerBanned CustomerStatus = "banned"
)

// ParseCustomerStatus validates a status filter value.
func ParseCustomerStatus(s string) (CustomerStatus, error) {
	switch CustomerStatus(s) {
	case CustomerActive, CustomerBanned:
		return CustomerStatus(s), nil
	default:
		return "", NewValidationError("status", "must be active or banned", nil)
	}
}

// Customer is a shopper account with a balance in each currency.
type Customer struct {
	ID           int64
	Profile      Profile
	PasswordHash string
	Balances     Amounts
	Status       CustomerStatus
	LastLogout   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCustomer builds an active customer with zero balances.
// The profile phone is normalized before validation.
func NewCustomer(profile Profile, passwordHash string, now time.Time) (*Customer, error) {
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
	return &Customer{
		Profile:      profile,
		PasswordHash: passwordHash,
		Status:       CustomerActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsActive reports whether the customer may trade.
func (c *Customer) IsActive() bool {
	return c.Status == CustomerActive
}

// TopUp credits amount in currency cur. Only active customers can be topped up.
func (c *Customer) TopUp(cur Currency, amount decimal.Decimal) error {
	if !c.IsActive() {
		return ErrCustomerInactive
	}
	if !cur.Valid() {
		return NewValidationError("currency", "must be LBP or USD", nil)
	}
	if amount.LessThan(MinTopUp) {
		return NewValidationError("amount", "must be at least "+MinTopUp.StringFixed(MoneyScale), nil)
	}
	c.Balances = c.Balances.Add(cur, amount)
	return nil
}

// Pay debits totals from the balances after checking both currencies.
func (c *Customer) Pay(totals Amounts) error {
	if c.Status == CustomerBanned {
		return ErrCustomerBanned
	}
	if err := c.Balances.Covers(totals); err != nil {
		return err
	}
	c.Balances = c.Balances.Minus(totals)
	return nil
}

// Refund credits totals back to the balances regardless of status.
func (c *Customer) Refund(totals Amounts) {
	c.Balances = c.Balances.Plus(totals)
}

// SetStatus bans or unbans the customer. It reports whether anything changed.
func (c *Customer) SetStatus(status CustomerStatus) bool {
	if c.Status == status {
		return false
	}
	c.Status = status
	return true
}

// TokenRevoked reports whether a token issued at issuedAt predates the last
// logout. JWT timestamps carry whole seconds, so a token issued within the
// logout second is also treated as revoked.
func TokenRevoked(issuedAt time.Time, lastLogout *time.Time) bool {
	if lastLogout == nil {
		return false
	}
	return issuedAt.Unix() <= lastLogout.Unix()
}
