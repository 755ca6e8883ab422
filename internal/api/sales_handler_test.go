package api

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesRouter(svc *mocks.MockSalesService) http.Handler {
	r := chi.NewRouter()
	MountSalesRoutes(r, NewSalesHandler(svc, slog.Default()), newTestAuth())
	return r
}

func TestSalesHandler_Purchase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		token       string
		purchaseErr error
		wantStatus  int
		wantMessage string
	}{
		{name: "success", body: `{"item_ids_or_names":["1"],"item_quantities":[3]}`, token: customerToken, wantStatus: http.StatusCreated},
		{name: "missing quantities", body: `{"item_ids_or_names":["1"]}`, token: customerToken, wantStatus: http.StatusBadRequest, wantMessage: "Invalid item_quantities: required field"},
		{name: "quantities as strings", body: `{"item_ids_or_names":["1"],"item_quantities":["3"]}`, token: customerToken, wantStatus: http.StatusBadRequest, wantMessage: "Invalid request format"},
		{
			name:        "insufficient stock",
			body:        `{"item_ids_or_names":["Bread"],"item_quantities":[6]}`,
			token:       customerToken,
			purchaseErr: &domain.InsufficientStockError{ItemID: 2, ItemName: "Bread", Available: 5, Requested: 6},
			wantStatus:  http.StatusConflict,
			wantMessage: "Insufficient stock for Bread: only 5 left",
		},
		{
			name:        "insufficient balance",
			body:        `{"item_ids_or_names":["1"],"item_quantities":[3]}`,
			token:       customerToken,
			purchaseErr: &domain.InsufficientBalanceError{Currency: domain.CurrencyUSD, Required: "7.50", Available: "5.00"},
			wantStatus:  http.StatusConflict,
			wantMessage: "Insufficient USD balance: required 7.50, available 5.00",
		},
		{
			name:        "unknown item",
			body:        `{"item_ids_or_names":["Caviar"],"item_quantities":[1]}`,
			token:       customerToken,
			purchaseErr: &store.MissingItemError{Ref: "Caviar"},
			wantStatus:  http.StatusNotFound,
			wantMessage: `Item "Caviar" not found`,
		},
		{name: "banned", body: `{"item_ids_or_names":["1"],"item_quantities":[1]}`, token: customerToken, purchaseErr: domain.ErrCustomerBanned, wantStatus: http.StatusForbidden, wantMessage: "Customer is banned"},
		{name: "unexpected failure", body: `{"item_ids_or_names":["1"],"item_quantities":[1]}`, token: customerToken, purchaseErr: assert.AnError, wantStatus: http.StatusInternalServerError, wantMessage: "Failed to complete purchase"},
		{name: "anonymous", body: `{"item_ids_or_names":["1"],"item_quantities":[1]}`, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotIDs []string
			var gotQty []int
			svc := &mocks.MockSalesService{
				PurchaseFn: func(_ context.Context, customerID int64, ids []string, qty []int) (*domain.Transaction, error) {
					gotIDs, gotQty = ids, qty
					if tt.purchaseErr != nil {
						return nil, tt.purchaseErr
					}
					return testTransaction(77, customerID), nil
				},
			}

			rec := request(t, salesRouter(svc), http.MethodPost, "/api/v1/sales/purchase", tt.body, tt.token)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, errorMessage(t, rec))
				return
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}
			resp := decodeBody[TransactionResponse](t, rec)
			assert.Equal(t, int64(77), resp.ID)
			assert.Equal(t, int64(7), resp.CustomerID)
			assert.Equal(t, "completed", resp.Status)
			assert.Equal(t, "0.00", resp.Totals.LBP)
			assert.Equal(t, "7.50", resp.Totals.USD)
			assert.Nil(t, resp.ReversedAt)
			assert.Equal(t, []string{"1"}, gotIDs)
			assert.Equal(t, []int{3}, gotQty)
		})
	}
}

func TestSalesHandler_ReverseAndHistory(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockSalesService{
		ReverseFn: func(_ context.Context, customerID, txnID int64) (*domain.Transaction, error) {
			switch txnID {
			case 77:
				txn := testTransaction(txnID, customerID)
				txn.Status = domain.TransactionReversed
				reversedAt := testNow
				txn.ReversedAt = &reversedAt
				return txn, nil
			case 78:
				return nil, domain.ErrAlreadyReversed
			default:
				return nil, service.ErrNotOwned
			}
		},
		ListTransactionsFn: func(_ context.Context, customerID int64, page store.Page) ([]*domain.Transaction, error) {
			assert.Equal(t, 5, page.Limit)
			return []*domain.Transaction{testTransaction(77, customerID)}, nil
		},
	}
	router := salesRouter(svc)

	rec := request(t, router, http.MethodPost, "/api/v1/sales/transactions/77/reverse", "", customerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TransactionResponse](t, rec)
	assert.Equal(t, "reversed", resp.Status)
	require.NotNil(t, resp.ReversedAt)
	assert.True(t, testNow.Equal(*resp.ReversedAt))

	rec = request(t, router, http.MethodPost, "/api/v1/sales/transactions/78/reverse", "", customerToken)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Transaction already reversed", errorMessage(t, rec))

	rec = request(t, router, http.MethodPost, "/api/v1/sales/transactions/79/reverse", "", customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(t, router, http.MethodGet, "/api/v1/sales/transactions?limit=5", "", customerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[TransactionListResponse](t, rec).Transactions, 1)
}

func TestSalesHandler_PublicCatalogue(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockSalesService{
		GetItemFn: func(_ context.Context, ref domain.ItemRef) (*domain.Item, error) {
			return testItem(1, ref.Name), nil
		},
		ListItemsFn: func(_ context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
			if filter.Category != nil {
				return nil, nil
			}
			return []*domain.Item{testItem(1, "Rice")}, nil
		},
	}
	router := salesRouter(svc)

	rec := request(t, router, http.MethodGet, "/api/v1/sales/items/Rice", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rice", decodeBody[ItemResponse](t, rec).Name)

	rec = request(t, router, http.MethodGet, "/api/v1/sales/items", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[ItemListResponse](t, rec).Items, 1)

	rec = request(t, router, http.MethodGet, "/api/v1/sales/items?category=toys", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}
