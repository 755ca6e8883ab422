package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerAccountFixture struct {
	svc       service.CustomerAccountService
	customers *mocks.MockCustomerStore
	tokens    *mocks.MockJWTService
	guard     *mocks.MockSessionGuard
	sqlMock   sqlmock.Sqlmock
}

func newCustomerAccountFixture(t *testing.T) *customerAccountFixture {
	t.Helper()
	db, sqlMock := mocks.NewMockDB(t)
	f := &customerAccountFixture{
		customers: &mocks.MockCustomerStore{},
		tokens:    &mocks.MockJWTService{},
		guard:     &mocks.MockSessionGuard{},
		sqlMock:   sqlMock,
	}
	f.svc = service.NewCustomerAccountService(
		f.customers, db, f.tokens, &mocks.MockPasswordVerifier{}, f.guard, discardLogger(), testClock())
	return f
}

func TestCustomerAccountService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates active customer and issues tokens", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)

		var saved *domain.Customer
		f.customers.CreateFn = func(_ context.Context, c *domain.Customer) error {
			c.ID = 11
			saved = c
			return nil
		}

		profile := testProfile()
		profile.Phone = "71123456"
		profile.Email = "  Jane@Example.COM "

		customer, pair, err := f.svc.Register(context.Background(), service.RegisterInput{
			Profile:  profile,
			Password: "secret123",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)

		assert.Equal(t, int64(11), customer.ID)
		assert.Equal(t, "+961-71-123-456", customer.Profile.Phone)
		assert.Equal(t, "jane@example.com", customer.Profile.Email)
		assert.Equal(t, "hashed:secret123", customer.PasswordHash)
		assert.Equal(t, domain.CustomerActive, customer.Status)
		assert.True(t, customer.Balances.LBP.IsZero())
		assert.True(t, customer.Balances.USD.IsZero())

		assert.Equal(t, "access-customer-11", pair.AccessToken)
		assert.Equal(t, "refresh-customer-11", pair.RefreshToken)
		assert.Equal(t, testNow.Add(30*time.Minute), pair.ExpiresAt)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)

		_, _, err := f.svc.Register(context.Background(), service.RegisterInput{Profile: testProfile(), Password: "short"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("invalid profile", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)

		profile := testProfile()
		profile.Age = 12
		_, _, err := f.svc.Register(context.Background(), service.RegisterInput{Profile: profile, Password: "secret123"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "age", verr.Field)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)
		f.customers.CreateFn = func(context.Context, *domain.Customer) error {
			return store.ErrEmailExists
		}

		_, _, err := f.svc.Register(context.Background(), service.RegisterInput{Profile: testProfile(), Password: "secret123"})
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestCustomerAccountService_Login(t *testing.T) {
	t.Parallel()

	active := testCustomer(5, "0", "0")
	banned := testCustomer(6, "0", "0")
	banned.Profile.Username = "banned_user"
	banned.Status = domain.CustomerBanned

	byID := map[int64]*domain.Customer{5: active, 6: banned}
	byUsername := map[string]*domain.Customer{active.Profile.Username: active, banned.Profile.Username: banned}

	tests := []struct {
		name       string
		identifier string
		password   string
		wantID     int64
		wantErr    error
	}{
		{name: "by username", identifier: "jane_doe", password: "secret123", wantID: 5},
		{name: "by numeric id", identifier: "5", password: "secret123", wantID: 5},
		{name: "by email any case", identifier: "JANE@example.com", password: "secret123", wantID: 5},
		{name: "by bare phone", identifier: "71123456", password: "secret123", wantID: 5},
		{name: "by formatted phone", identifier: "+961-71-123-456", password: "secret123", wantID: 5},
		{name: "wrong password", identifier: "jane_doe", password: "nope", wantErr: service.ErrInvalidCredentials},
		{name: "unknown identifier", identifier: "ghost", password: "secret123", wantErr: service.ErrInvalidCredentials},
		{name: "blank identifier", identifier: "  ", password: "secret123", wantErr: service.ErrInvalidCredentials},
		{name: "banned customer", identifier: "banned_user", password: "secret123", wantErr: domain.ErrCustomerBanned},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newCustomerAccountFixture(t)
			f.customers.GetByIDFn = func(_ context.Context, id int64) (*domain.Customer, error) {
				if c, ok := byID[id]; ok {
					return c, nil
				}
				return nil, store.ErrCustomerNotFound
			}
			f.customers.GetByUsernameFn = func(_ context.Context, username string) (*domain.Customer, error) {
				if c, ok := byUsername[username]; ok {
					return c, nil
				}
				return nil, store.ErrCustomerNotFound
			}
			f.customers.GetByEmailFn = func(_ context.Context, email string) (*domain.Customer, error) {
				if email == "JANE@example.com" {
					return active, nil
				}
				return nil, store.ErrCustomerNotFound
			}
			f.customers.GetByPhoneFn = func(_ context.Context, phone string) (*domain.Customer, error) {
				if phone == active.Profile.Phone {
					return active, nil
				}
				return nil, store.ErrCustomerNotFound
			}

			customer, pair, err := f.svc.Login(context.Background(), tt.identifier, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pair)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, customer.ID)
			assert.NotEmpty(t, pair.AccessToken)
		})
	}
}

func TestCustomerAccountService_LoginStoreFailure(t *testing.T) {
	t.Parallel()
	f := newCustomerAccountFixture(t)
	f.customers.GetByUsernameFn = func(context.Context, string) (*domain.Customer, error) {
		return nil, errors.New("connection reset")
	}

	_, _, err := f.svc.Login(context.Background(), "jane_doe", "secret123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestCustomerAccountService_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("issues a new pair", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)
		f.tokens.Claims = &auth.Claims{AccountID: 3, Role: domain.RoleCustomer, IssuedAt: testNow}

		pair, err := f.svc.Refresh(context.Background(), "refresh")
		require.NoError(t, err)
		assert.Equal(t, "access-customer-3", pair.AccessToken)
	})

	t.Run("admin refresh token", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)
		f.tokens.Claims = &auth.Claims{AccountID: 3, Role: domain.RoleAdmin, IssuedAt: testNow}

		_, err := f.svc.Refresh(context.Background(), "refresh")
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)
		f.tokens.ValidateErr = auth.ErrExpiredRefreshToken

		_, err := f.svc.Refresh(context.Background(), "refresh")
		assert.ErrorIs(t, err, auth.ErrExpiredRefreshToken)
	})

	t.Run("revoked session", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)
		f.tokens.Claims = &auth.Claims{AccountID: 3, Role: domain.RoleCustomer, IssuedAt: testNow}
		f.guard.AuthorizeFn = func(context.Context, *auth.Claims, domain.Role) (auth.Principal, error) {
			return auth.Principal{}, auth.ErrTokenRevoked
		}

		_, err := f.svc.Refresh(context.Background(), "refresh")
		assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	})
}

func TestCustomerAccountService_Logout(t *testing.T) {
	t.Parallel()
	f := newCustomerAccountFixture(t)

	var stamped time.Time
	f.customers.SetLastLogoutFn = func(_ context.Context, id int64, at time.Time) error {
		assert.Equal(t, int64(8), id)
		stamped = at
		return nil
	}

	require.NoError(t, f.svc.Logout(context.Background(), 8))
	assert.Equal(t, testNow, stamped)
	assert.Equal(t, []int64{8}, f.guard.Refreshed)
}

func TestCustomerAccountService_UpdateProfile(t *testing.T) {
	t.Parallel()

	newPhone := "03999888"
	age := 41

	t.Run("applies partial update in a transaction", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)
		mocks.ExpectCommittedTx(f.sqlMock)

		f.customers.GetByIDForUpdateFn = func(context.Context, int64) (*domain.Customer, error) {
			return testCustomer(2, "0", "0"), nil
		}
		var written *domain.Customer
		f.customers.UpdateFn = func(_ context.Context, c *domain.Customer) error {
			written = c
			return nil
		}

		customer, err := f.svc.UpdateProfile(context.Background(), 2,
			domain.ProfileUpdate{Phone: &newPhone, Age: &age})
		require.NoError(t, err)
		require.NotNil(t, written)
		assert.Equal(t, "+961-03-999-888", customer.Profile.Phone)
		assert.Equal(t, 41, customer.Profile.Age)
		assert.Equal(t, "jane_doe", customer.Profile.Username, "username is not editable")
		assert.Equal(t, 1, f.customers.WithTxCalls)
	})

	t.Run("empty update", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)

		_, err := f.svc.UpdateProfile(context.Background(), 2, domain.ProfileUpdate{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("phone clash rolls back", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)
		mocks.ExpectRolledBackTx(f.sqlMock)

		f.customers.GetByIDForUpdateFn = func(context.Context, int64) (*domain.Customer, error) {
			return testCustomer(2, "0", "0"), nil
		}
		f.customers.UpdateFn = func(context.Context, *domain.Customer) error {
			return store.ErrPhoneExists
		}

		_, err := f.svc.UpdateProfile(context.Background(), 2, domain.ProfileUpdate{Phone: &newPhone})
		assert.ErrorIs(t, err, store.ErrPhoneExists)
	})

	t.Run("missing customer", func(t *testing.T) {
		t.Parallel()
		f := newCustomerAccountFixture(t)
		mocks.ExpectRolledBackTx(f.sqlMock)

		_, err := f.svc.UpdateProfile(context.Background(), 99, domain.ProfileUpdate{Age: &age})
		assert.ErrorIs(t, err, store.ErrCustomerNotFound)
	})
}
