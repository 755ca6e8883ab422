package api

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registerBody = `{
	"first_name": "Maya", "last_name": "Haddad", "username": "maya",
	"email": "maya@example.com", "password": "correct-horse", "phone": "71123456",
	"age": 29, "gender": "female", "marital_status": "single"
}`

func testTokens() *auth.TokenPair {
	return &auth.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    testNow.Add(15 * time.Minute),
	}
}

func customerAccountRouter(svc *mocks.MockCustomerAccountService) http.Handler {
	r := chi.NewRouter()
	MountCustomerRoutes(r, NewCustomerAccountHandler(svc, slog.Default()), newTestAuth())
	return r
}

func TestCustomerAccountHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		registerErr error
		wantStatus  int
		wantMessage string
	}{
		{name: "success", body: registerBody, wantStatus: http.StatusCreated},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantMessage: "Request body is required"},
		{name: "malformed json", body: `{"username":`, wantStatus: http.StatusBadRequest, wantMessage: "Invalid request format"},
		{name: "unknown field", body: `{"nickname":"m"}`, wantStatus: http.StatusBadRequest, wantMessage: "Invalid request format"},
		{
			name:        "invalid email",
			body:        `{"first_name":"Maya","last_name":"Haddad","username":"maya","email":"nope","password":"correct-horse","phone":"71123456","age":29,"gender":"female","marital_status":"single"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid email: invalid email format",
		},
		{
			name:        "under age",
			body:        `{"first_name":"Maya","last_name":"Haddad","username":"maya","email":"maya@example.com","password":"correct-horse","phone":"71123456","age":17,"gender":"female","marital_status":"single"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid age: must be at least 18",
		},
		{name: "username taken", body: registerBody, registerErr: store.ErrUsernameExists, wantStatus: http.StatusConflict, wantMessage: "Username already exists"},
		{name: "bad phone", body: registerBody, registerErr: domain.NewValidationError("phone", "must be exactly 8 digits", nil), wantStatus: http.StatusBadRequest, wantMessage: "Invalid phone: must be exactly 8 digits"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got service.RegisterInput
			svc := &mocks.MockCustomerAccountService{
				RegisterFn: func(_ context.Context, in service.RegisterInput) (*domain.Customer, *auth.TokenPair, error) {
					got = in
					if tt.registerErr != nil {
						return nil, nil, tt.registerErr
					}
					return testCustomer(7), testTokens(), nil
				},
			}

			rec := request(t, customerAccountRouter(svc), http.MethodPost, "/api/v1/customers/register", tt.body, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, errorMessage(t, rec))
				return
			}
			resp := decodeBody[AuthResponse](t, rec)
			assert.Equal(t, int64(7), resp.AccountID)
			assert.Equal(t, "customer", resp.Role)
			assert.Equal(t, "access", resp.AccessToken)
			assert.Equal(t, "2025-06-10T12:15:00Z", resp.ExpiresAt)
			assert.Equal(t, "maya", got.Profile.Username)
			assert.Equal(t, domain.GenderFemale, got.Profile.Gender)
			assert.Equal(t, "correct-horse", got.Password)
		})
	}
}

func TestCustomerAccountHandler_Login(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockCustomerAccountService{
		LoginFn: func(_ context.Context, identifier, password string) (*domain.Customer, *auth.TokenPair, error) {
			if identifier == "71123456" && password == "correct-horse" {
				return testCustomer(7), testTokens(), nil
			}
			return nil, nil, service.ErrInvalidCredentials
		},
	}
	router := customerAccountRouter(svc)

	rec := request(t, router, http.MethodPost, "/api/v1/customers/login",
		`{"identifier":"71123456","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), decodeBody[AuthResponse](t, rec).AccountID)

	rec = request(t, router, http.MethodPost, "/api/v1/customers/login",
		`{"identifier":"71123456","password":"wrong-horse"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, rec))
}

func TestCustomerAccountHandler_Refresh(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockCustomerAccountService{
		RefreshFn: func(_ context.Context, token string) (*auth.TokenPair, error) {
			if token == "expired" {
				return nil, auth.ErrExpiredRefreshToken
			}
			return testTokens(), nil
		},
	}
	router := customerAccountRouter(svc)

	rec := request(t, router, http.MethodPost, "/api/v1/customers/refresh", `{"refresh_token":"good"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "account_id")

	rec = request(t, router, http.MethodPost, "/api/v1/customers/refresh", `{"refresh_token":"expired"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Refresh token expired", errorMessage(t, rec))
}

func TestCustomerAccountHandler_ProtectedRoutes(t *testing.T) {
	t.Parallel()

	var loggedOut int64
	var update domain.ProfileUpdate
	svc := &mocks.MockCustomerAccountService{
		LogoutFn: func(_ context.Context, id int64) error {
			loggedOut = id
			return nil
		},
		GetFn: func(_ context.Context, id int64) (*domain.Customer, error) {
			return testCustomer(id), nil
		},
		UpdateProfileFn: func(_ context.Context, id int64, u domain.ProfileUpdate) (*domain.Customer, error) {
			update = u
			c := testCustomer(id)
			c.Profile.Age = *u.Age
			return c, nil
		},
	}
	router := customerAccountRouter(svc)

	t.Run("no token", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/v1/customers/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin token", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/v1/customers/me", "", adminToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("me", func(t *testing.T) {
		rec := request(t, router, http.MethodGet, "/api/v1/customers/me", "", customerToken)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[CustomerResponse](t, rec)
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "maya", resp.Username)
		assert.Equal(t, "150000.00", resp.Balances.LBP)
		assert.Equal(t, "12.50", resp.Balances.USD)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("update", func(t *testing.T) {
		rec := request(t, router, http.MethodPatch, "/api/v1/customers/me", `{"age":30}`, customerToken)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 30, decodeBody[CustomerResponse](t, rec).Age)
		require.NotNil(t, update.Age)
		assert.Nil(t, update.FirstName)
	})

	t.Run("empty update", func(t *testing.T) {
		rec := request(t, router, http.MethodPatch, "/api/v1/customers/me", `{}`, customerToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid profile: at least one field must be provided", errorMessage(t, rec))
	})

	t.Run("logout", func(t *testing.T) {
		rec := request(t, router, http.MethodPost, "/api/v1/customers/logout", "", customerToken)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Logged out successfully", decodeBody[shared.MessageResponse](t, rec).Message)
		assert.Equal(t, int64(7), loggedOut)
	})
}

func TestAdminAccountHandler(t *testing.T) {
	t.Parallel()

	admin := &domain.Admin{
		ID: 1,
		Profile: domain.Profile{
			Username: "root",
			Email:    "root@example.com",
		},
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	svc := &mocks.MockAdminAccountService{
		RegisterFn: func(context.Context, service.RegisterInput) (*domain.Admin, *auth.TokenPair, error) {
			return admin, testTokens(), nil
		},
		GetFn: func(_ context.Context, id int64) (*domain.Admin, error) {
			if id != admin.ID {
				return nil, store.ErrAdminNotFound
			}
			return admin, nil
		},
	}
	r := chi.NewRouter()
	MountAdminRoutes(r,
		NewAdminAccountHandler(svc, slog.Default()),
		NewCustomerManagementHandler(&mocks.MockCustomerManagementService{}, slog.Default()),
		newTestAuth())

	rec := request(t, r, http.MethodPost, "/api/v1/admins/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "admin", decodeBody[AuthResponse](t, rec).Role)

	rec = request(t, r, http.MethodGet, "/api/v1/admins/me", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root", decodeBody[AdminResponse](t, rec).Username)

	rec = request(t, r, http.MethodGet, "/api/v1/admins/me", "", "admin-2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Admin not found", errorMessage(t, rec))

	rec = request(t, r, http.MethodGet, "/api/v1/admins/me", "", customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerConstructors_PanicOnNilLogger(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewCustomerAccountHandler(&mocks.MockCustomerAccountService{}, nil) })
	assert.Panics(t, func() { NewAdminAccountHandler(&mocks.MockAdminAccountService{}, nil) })
	assert.Panics(t, func() { NewCustomerManagementHandler(&mocks.MockCustomerManagementService{}, nil) })
	assert.Panics(t, func() { NewInventoryHandler(&mocks.MockInventoryService{}, nil) })
	assert.Panics(t, func() { NewReviewHandler(&mocks.MockReviewService{}, nil) })
	assert.Panics(t, func() { NewSalesHandler(&mocks.MockSalesService{}, nil) })
}
