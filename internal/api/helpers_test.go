package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// Tokens understood by newTestAuth.
const (
	customerToken = "customer-7"
	adminToken    = "admin-1"
)

// newTestAuth builds the real auth middleware over tokens of the form
// "<role>-<id>" and a guard that enforces the route's role.
func newTestAuth() *middleware.AuthMiddleware {
	tokens := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			role, rawID, ok := strings.Cut(token, "-")
			id, err := strconv.ParseInt(rawID, 10, 64)
			if !ok || err != nil {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{
				AccountID: id,
				Role:      domain.Role(role),
				TokenType: auth.TokenTypeAccess,
				IssuedAt:  testNow,
			}, nil
		},
	}
	guard := &mocks.MockSessionGuard{
		AuthorizeFn: func(_ context.Context, claims *auth.Claims, role domain.Role) (auth.Principal, error) {
			if claims.Role != role {
				return auth.Principal{}, service.ErrForbiddenRole
			}
			return claims.Principal(), nil
		},
	}
	return middleware.NewAuthMiddleware(tokens, guard, nil)
}

// request sends an optional JSON body through h with an optional bearer token.
func request(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rec).Error
}

func testCustomer(id int64) *domain.Customer {
	return &domain.Customer{
		ID: id,
		Profile: domain.Profile{
			Username:      "maya",
			Email:         "maya@example.com",
			FirstName:     "Maya",
			LastName:      "Haddad",
			Phone:         "+961-71-123-456",
			Age:           29,
			Gender:        domain.GenderFemale,
			MaritalStatus: domain.MaritalSingle,
		},
		Balances: domain.Amounts{
			LBP: decimal.NewFromInt(150000),
			USD: decimal.RequireFromString("12.5"),
		},
		Status:    domain.CustomerActive,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func testItem(id int64, name string) *domain.Item {
	return &domain.Item{
		ID:           id,
		Name:         name,
		Category:     domain.Category("food"),
		PricePerUnit: decimal.RequireFromString("2.5"),
		Currency:     domain.CurrencyUSD,
		Quantity:     10,
		Description:  "Long grain",
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
}

func testTransaction(id, customerID int64) *domain.Transaction {
	itemID := int64(1)
	return &domain.Transaction{
		ID:         id,
		CustomerID: customerID,
		Lines: []domain.TransactionLine{{
			ItemID:    &itemID,
			ItemName:  "Rice",
			Category:  domain.Category("food"),
			UnitPrice: decimal.RequireFromString("2.5"),
			Currency:  domain.CurrencyUSD,
			Quantity:  3,
		}},
		Totals: domain.Amounts{
			LBP: decimal.Zero,
			USD: decimal.RequireFromString("7.5"),
		},
		Status:    domain.TransactionCompleted,
		CreatedAt: testNow,
	}
}
