package api

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managementRouter(svc *mocks.MockCustomerManagementService) http.Handler {
	r := chi.NewRouter()
	MountAdminRoutes(r,
		NewAdminAccountHandler(&mocks.MockAdminAccountService{}, slog.Default()),
		NewCustomerManagementHandler(svc, slog.Default()),
		newTestAuth())
	return r
}

func TestCustomerManagementHandler_TopUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		path         string
		body         string
		topUpErr     error
		wantStatus   int
		wantAmount   string
		wantCurrency domain.Currency
		wantMessage  string
	}{
		{name: "string amount", path: "/api/v1/admin/customers/7/top-up", body: `{"amount":"12.34","currency":"USD"}`, wantStatus: http.StatusOK, wantAmount: "12.34", wantCurrency: domain.CurrencyUSD},
		{name: "number amount", path: "/api/v1/admin/customers/7/top-up", body: `{"amount":50000,"currency":"LBP"}`, wantStatus: http.StatusOK, wantAmount: "50000", wantCurrency: domain.CurrencyLBP},
		{name: "missing amount", path: "/api/v1/admin/customers/7/top-up", body: `{"currency":"USD"}`, wantStatus: http.StatusBadRequest, wantMessage: "Invalid amount: required field"},
		{name: "non numeric amount", path: "/api/v1/admin/customers/7/top-up", body: `{"amount":"lots","currency":"USD"}`, wantStatus: http.StatusBadRequest, wantMessage: "Invalid request format"},
		{name: "unknown currency", path: "/api/v1/admin/customers/7/top-up", body: `{"amount":"5","currency":"EUR"}`, wantStatus: http.StatusBadRequest},
		{name: "bad id", path: "/api/v1/admin/customers/abc/top-up", body: `{"amount":"5","currency":"USD"}`, wantStatus: http.StatusBadRequest},
		{name: "banned customer", path: "/api/v1/admin/customers/7/top-up", body: `{"amount":"5","currency":"USD"}`, topUpErr: domain.ErrCustomerInactive, wantStatus: http.StatusConflict, wantMessage: "Customer is not active"},
		{name: "unknown customer", path: "/api/v1/admin/customers/99/top-up", body: `{"amount":"5","currency":"USD"}`, topUpErr: store.ErrCustomerNotFound, wantStatus: http.StatusNotFound, wantMessage: "Customer not found"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotAmount decimal.Decimal
			var gotCurrency domain.Currency
			svc := &mocks.MockCustomerManagementService{
				TopUpFn: func(_ context.Context, id int64, amount decimal.Decimal, currency domain.Currency) (*domain.Customer, error) {
					gotAmount, gotCurrency = amount, currency
					if tt.topUpErr != nil {
						return nil, tt.topUpErr
					}
					return testCustomer(id), nil
				},
			}

			rec := request(t, managementRouter(svc), http.MethodPost, tt.path, tt.body, adminToken)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, errorMessage(t, rec))
			}
			if tt.wantAmount != "" {
				assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(gotAmount), "got %s", gotAmount)
				assert.Equal(t, tt.wantCurrency, gotCurrency)
			}
		})
	}
}

func TestCustomerManagementHandler_RequiresAdmin(t *testing.T) {
	t.Parallel()

	router := managementRouter(&mocks.MockCustomerManagementService{})

	assert.Equal(t, http.StatusUnauthorized, request(t, router, http.MethodGet, "/api/v1/admin/customers", "", "").Code)
	assert.Equal(t, http.StatusForbidden, request(t, router, http.MethodGet, "/api/v1/admin/customers", "", customerToken).Code)
}

func TestCustomerManagementHandler_ListCustomers(t *testing.T) {
	t.Parallel()

	var got store.CustomerFilter
	svc := &mocks.MockCustomerManagementService{
		ListCustomersFn: func(_ context.Context, filter store.CustomerFilter) ([]*domain.Customer, error) {
			got = filter
			banned := testCustomer(8)
			banned.Status = domain.CustomerBanned
			return []*domain.Customer{banned}, nil
		},
	}
	router := managementRouter(svc)

	rec := request(t, router, http.MethodGet, "/api/v1/admin/customers?status=banned&limit=10&offset=20", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.CustomerBanned, *got.Status)
	assert.Equal(t, store.Page{Limit: 10, Offset: 20}, got.Page)
	resp := decodeBody[CustomerListResponse](t, rec)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, "banned", resp.Customers[0].Status)

	rec = request(t, router, http.MethodGet, "/api/v1/admin/customers", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Status)

	rec = request(t, router, http.MethodGet, "/api/v1/admin/customers?status=sleeping", "", adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, router, http.MethodGet, "/api/v1/admin/customers?limit=0", "", adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid limit: must be a positive integer", errorMessage(t, rec))
}

func TestCustomerManagementHandler_BanUnban(t *testing.T) {
	t.Parallel()

	var statuses []domain.CustomerStatus
	svc := &mocks.MockCustomerManagementService{
		SetStatusFn: func(_ context.Context, id int64, status domain.CustomerStatus) (*domain.Customer, error) {
			statuses = append(statuses, status)
			c := testCustomer(id)
			c.Status = status
			return c, nil
		},
	}
	router := managementRouter(svc)

	rec := request(t, router, http.MethodPost, "/api/v1/admin/customers/7/ban", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "banned", decodeBody[CustomerResponse](t, rec).Status)

	rec = request(t, router, http.MethodPost, "/api/v1/admin/customers/7/unban", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "active", decodeBody[CustomerResponse](t, rec).Status)

	assert.Equal(t, []domain.CustomerStatus{domain.CustomerBanned, domain.CustomerActive}, statuses)
}

func TestCustomerManagementHandler_CustomerReads(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockCustomerManagementService{
		GetCustomerFn: func(_ context.Context, id int64) (*domain.Customer, error) {
			return testCustomer(id), nil
		},
		ListCustomerTransactionsFn: func(_ context.Context, id int64, _ store.Page) ([]*domain.Transaction, error) {
			return []*domain.Transaction{testTransaction(3, id)}, nil
		},
		UpdateCustomerFn: func(_ context.Context, id int64, u domain.ProfileUpdate) (*domain.Customer, error) {
			c := testCustomer(id)
			c.Profile.FirstName = *u.FirstName
			return c, nil
		},
	}
	router := managementRouter(svc)

	rec := request(t, router, http.MethodGet, "/api/v1/admin/customers/7", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), decodeBody[CustomerResponse](t, rec).ID)

	rec = request(t, router, http.MethodPatch, "/api/v1/admin/customers/7", `{"first_name":"Mira"}`, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mira", decodeBody[CustomerResponse](t, rec).FirstName)

	rec = request(t, router, http.MethodGet, "/api/v1/admin/customers/7/transactions", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	txns := decodeBody[TransactionListResponse](t, rec).Transactions
	require.Len(t, txns, 1)
	assert.Equal(t, "7.50", txns[0].Totals.USD)
	assert.Equal(t, "7.50", txns[0].Lines[0].LineTotal)
}

func TestCustomerManagementHandler_ReverseTransaction(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockCustomerManagementService{
		ReverseTransactionFn: func(_ context.Context, id int64) (*domain.Transaction, error) {
			switch id {
			case 3:
				txn := testTransaction(3, 7)
				reversedAt := testNow.Add(48 * time.Hour)
				txn.Status = domain.TransactionReversed
				txn.ReversedAt = &reversedAt
				return txn, nil
			case 4:
				return nil, domain.ErrReversalWindowClosed
			default:
				return nil, store.ErrTransactionNotFound
			}
		},
	}
	router := managementRouter(svc)

	rec := request(t, router, http.MethodPost, "/api/v1/admin/transactions/3/reverse", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TransactionResponse](t, rec)
	assert.Equal(t, "reversed", resp.Status)
	require.NotNil(t, resp.ReversedAt)

	rec = request(t, router, http.MethodPost, "/api/v1/admin/transactions/4/reverse", "", adminToken)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Reversal window closed", errorMessage(t, rec))

	rec = request(t, router, http.MethodPost, "/api/v1/admin/transactions/5/reverse", "", adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
