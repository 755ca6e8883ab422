package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionTotals(t *testing.T) {
	t.Parallel()

	usdItem := &Item{ID: 1, Name: "Charger", Category: "electronics", PricePerUnit: dec("12.99"), Currency: CurrencyUSD}
	lbpItem := &Item{ID: 2, Name: "Manakish", Category: "food", PricePerUnit: dec("150000"), Currency: CurrencyLBP}

	lines := []TransactionLine{LineFor(usdItem, 3), LineFor(lbpItem, 2)}
	tx, err := NewTransaction(5, lines, time.Now())
	require.NoError(t, err)

	assert.Equal(t, TransactionCompleted, tx.Status)
	assert.Equal(t, "38.97", tx.Totals.USD.StringFixed(MoneyScale))
	assert.Equal(t, "300000.00", tx.Totals.LBP.StringFixed(MoneyScale))
	assert.True(t, tx.Contains(1))
	assert.False(t, tx.Contains(3))

	_, err = NewTransaction(5, nil, time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLineForSnapshotsItem(t *testing.T) {
	t.Parallel()

	item := &Item{ID: 1, Name: "Charger", Category: "electronics", PricePerUnit: dec("12.99"), Currency: CurrencyUSD}
	line := LineFor(item, 1)
	item.ID = 99
	item.PricePerUnit = dec("20")

	require.NotNil(t, line.ItemID)
	assert.Equal(t, int64(1), *line.ItemID)
	assert.True(t, line.UnitPrice.Equal(dec("12.99")))
}

func TestTransactionReverse(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  TransactionStatus
		now     time.Time
		wantErr error
	}{
		{name: "inside window", status: TransactionCompleted, now: created.Add(24 * time.Hour)},
		{name: "exactly at window edge", status: TransactionCompleted, now: created.Add(DefaultReversalWindow)},
		{name: "past window", status: TransactionCompleted, now: created.Add(DefaultReversalWindow + time.Second), wantErr: ErrReversalWindowClosed},
		{name: "already reversed", status: TransactionReversed, now: created.Add(time.Hour), wantErr: ErrAlreadyReversed},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tx := &Transaction{ID: 1, Status: tt.status, CreatedAt: created}
			err := tx.Reverse(tt.now, DefaultReversalWindow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TransactionReversed, tx.Status)
			require.NotNil(t, tx.ReversedAt)
			assert.Equal(t, tt.now, *tx.ReversedAt)
		})
	}
}
