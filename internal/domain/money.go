package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the two currencies the shop trades in.
type Currency string

const (
	CurrencyLBP Currency = "LBP"
	CurrencyUSD Currency = "USD"
)

// MoneyScale is the number of decimal places kept for every amount.
const MoneyScale = 2

var (
	// MinTopUp is the smallest amount an admin can credit.
	MinTopUp = decimal.New(1, -MoneyScale)

	// MinUnitPrice is the smallest price an item can carry.
	MinUnitPrice = decimal.NewFromInt(1)
)

// ParseCurrency accepts a currency code in any letter case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewValidationError("currency", "must be LBP or USD", nil)
	}
	return c, nil
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	return c == CurrencyLBP || c == CurrencyUSD
}

// Amounts holds one amount per currency. It is used both for customer
// balances and for transaction totals.
type Amounts struct {
	LBP decimal.Decimal
	USD decimal.Decimal
}

// Get returns the amount held in the given currency.
func (a Amounts) Get(c Currency) decimal.Decimal {
	if c == CurrencyLBP {
		return a.LBP
	}
	return a.USD
}

// Add returns a copy of a with amount added in currency c.
func (a Amounts) Add(c Currency, amount decimal.Decimal) Amounts {
	if c == CurrencyLBP {
		a.LBP = a.LBP.Add(amount).Round(MoneyScale)
	} else {
		a.USD = a.USD.Add(amount).Round(MoneyScale)
	}
	return a
}

// Plus returns the per-currency sum of a and b.
func (a Amounts) Plus(b Amounts) Amounts {
	return Amounts{
		LBP: a.LBP.Add(b.LBP).Round(MoneyScale),
		USD: a.USD.Add(b.USD).Round(MoneyScale),
	}
}

// Minus returns the per-currency difference a - b.
func (a Amounts) Minus(b Amounts) Amounts {
	return Amounts{
		LBP: a.LBP.Sub(b.LBP).Round(MoneyScale),
		USD: a.USD.Sub(b.USD).Round(MoneyScale),
	}
}

// Covers checks that a holds at least b in each currency, LBP first.
// It returns an *InsufficientBalanceError for the first shortfall.
func (a Amounts) Covers(b Amounts) error {
	for _, c := range []Currency{CurrencyLBP, CurrencyUSD} {
		have, need := a.Get(c), b.Get(c)
		if have.LessThan(need) {
			return &InsufficientBalanceError{
				Currency:  c,
				Required:  need.StringFixed(MoneyScale),
				Available: have.StringFixed(MoneyScale),
			}
		}
	}
	return nil
}
