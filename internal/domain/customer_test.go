package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := NewCustomer(validProfile(), "hash", time.Now())
	require.NoError(t, err)
	return c
}

func TestCustomerTopUp(t *testing.T) {
	t.Parallel()

	c := newTestCustomer(t)

	require.NoError(t, c.TopUp(CurrencyUSD, dec("25.50")))
	require.NoError(t, c.TopUp(CurrencyLBP, dec("900000")))
	assert.True(t, c.Balances.USD.Equal(dec("25.50")))
	assert.True(t, c.Balances.LBP.Equal(dec("900000")))

	assert.ErrorIs(t, c.TopUp(CurrencyUSD, dec("0.001")), ErrValidation)
	assert.ErrorIs(t, c.TopUp(Currency("EUR"), dec("5")), ErrValidation)

	c.SetStatus(CustomerBanned)
	assert.ErrorIs(t, c.TopUp(CurrencyUSD, dec("5")), ErrCustomerInactive)
}

func TestCustomerPayAndRefund(t *testing.T) {
	t.Parallel()

	c := newTestCustomer(t)
	c.Balances = Amounts{LBP: dec("100000"), USD: dec("50")}

	totals := Amounts{LBP: dec("40000"), USD: dec("12.25")}
	require.NoError(t, c.Pay(totals))
	assert.True(t, c.Balances.LBP.Equal(dec("60000")))
	assert.True(t, c.Balances.USD.Equal(dec("37.75")))

	err := c.Pay(Amounts{USD: dec("100")})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, c.Balances.USD.Equal(dec("37.75")), "failed payment leaves balances untouched")

	c.Refund(totals)
	assert.True(t, c.Balances.LBP.Equal(dec("100000")))
	assert.True(t, c.Balances.USD.Equal(dec("50")))

	c.SetStatus(CustomerBanned)
	assert.ErrorIs(t, c.Pay(Amounts{}), ErrCustomerBanned)
}

func TestCustomerSetStatus(t *testing.T) {
	t.Parallel()

	c := newTestCustomer(t)
	assert.False(t, c.SetStatus(CustomerActive))
	assert.True(t, c.SetStatus(CustomerBanned))
	assert.False(t, c.IsActive())
	assert.False(t, c.SetStatus(CustomerBanned))
}

func TestParseCustomerStatus(t *testing.T) {
	t.Parallel()

	s, err := ParseCustomerStatus("banned")
	require.NoError(t, err)
	assert.Equal(t, CustomerBanned, s)

	_, err = ParseCustomerStatus("deleted")
	assert.ErrorIs(t, err, ErrValidation)
}
