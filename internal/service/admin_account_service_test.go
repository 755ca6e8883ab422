package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminAccountService(t *testing.T, admins *mocks.MockAdminStore, guard *mocks.MockSessionGuard) service.AdminAccountService {
	t.Helper()
	db, _ := mocks.NewMockDB(t)
	return service.NewAdminAccountService(
		admins, db, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, guard, discardLogger(), testClock())
}

func TestAdminAccountService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	var stored *domain.Admin
	admins := &mocks.MockAdminStore{
		CreateFn: func(_ context.Context, a *domain.Admin) error {
			a.ID = 2
			stored = a
			return nil
		},
		GetByUsernameFn: func(_ context.Context, username string) (*domain.Admin, error) {
			if stored != nil && stored.Profile.Username == username {
				return stored, nil
			}
			return nil, store.ErrAdminNotFound
		},
	}
	svc := newAdminAccountService(t, admins, &mocks.MockSessionGuard{})

	admin, pair, err := svc.Register(context.Background(), service.RegisterInput{Profile: testProfile(), Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), admin.ID)
	assert.Equal(t, "access-admin-2", pair.AccessToken)

	logged, pair, err := svc.Login(context.Background(), "jane_doe", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(2), logged.ID)
	assert.Equal(t, "refresh-admin-2", pair.RefreshToken)

	_, _, err = svc.Login(context.Background(), "jane_doe", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAdminAccountService_RegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	admins := &mocks.MockAdminStore{
		CreateFn: func(context.Context, *domain.Admin) error { return store.ErrUsernameExists },
	}
	svc := newAdminAccountService(t, admins, &mocks.MockSessionGuard{})

	_, _, err := svc.Register(context.Background(), service.RegisterInput{Profile: testProfile(), Password: "secret123"})
	assert.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestAdminAccountService_LogoutAndRefresh(t *testing.T) {
	t.Parallel()

	var stamped time.Time
	admins := &mocks.MockAdminStore{
		SetLastLogoutFn: func(_ context.Context, _ int64, at time.Time) error {
			stamped = at
			return nil
		},
	}
	guard := &mocks.MockSessionGuard{}
	db, _ := mocks.NewMockDB(t)
	tokens := &mocks.MockJWTService{
		Claims: &auth.Claims{AccountID: 2, Role: domain.RoleAdmin, TokenType: auth.TokenTypeRefresh},
	}
	svc := service.NewAdminAccountService(
		admins, db, tokens, &mocks.MockPasswordVerifier{}, guard, discardLogger(), testClock())

	require.NoError(t, svc.Logout(context.Background(), 2))
	assert.Equal(t, testNow, stamped)
	assert.Equal(t, []int64{2}, guard.Refreshed)

	guard.AuthorizeFn = func(context.Context, *auth.Claims, domain.Role) (auth.Principal, error) {
		return auth.Principal{}, auth.ErrTokenRevoked
	}
	_, err := svc.Refresh(context.Background(), "refresh-admin-2")
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestAdminAccountService_UpdateProfile(t *testing.T) {
	t.Parallel()

	db, sqlMock := mocks.NewMockDB(t)
	mocks.ExpectCommittedTx(sqlMock)

	admins := &mocks.MockAdminStore{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Admin, error) {
			return &domain.Admin{ID: id, Profile: testProfile(), PasswordHash: "hashed:secret123"}, nil
		},
	}
	svc := service.NewAdminAccountService(
		admins, db, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, &mocks.MockSessionGuard{},
		discardLogger(), testClock())

	last := "Smith"
	admin, err := svc.UpdateProfile(context.Background(), 3, domain.ProfileUpdate{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Smith", admin.Profile.LastName)
	assert.Equal(t, testNow, admin.UpdatedAt)
}
