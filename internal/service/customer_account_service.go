package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// CustomerAccountService covers the customer's own account: sign-up,
// sessions and profile.
type CustomerAccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Customer, *auth.TokenPair, error)
	Login(ctx context.Context, identifier, password string) (*domain.Customer, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, customerID int64) error
	Get(ctx context.Context, customerID int64) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, customerID int64, update domain.ProfileUpdate) (*domain.Customer, error)
}

type customerAccountService struct {
	customers store.CustomerStore
	db        *sql.DB
	tokens    auth.JWTService
	passwords PasswordHasherVerifier
	guard     SessionGuard
	logger    *slog.Logger
	opts      options
}

// PasswordHasherVerifier hashes new passwords and checks presented ones.
type PasswordHasherVerifier interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// NewCustomerAccountService creates a CustomerAccountService.
func NewCustomerAccountService(
	customers store.CustomerStore,
	db *sql.DB,
	tokens auth.JWTService,
	passwords PasswordHasherVerifier,
	guard SessionGuard,
	logger *slog.Logger,
	opts ...Option,
) CustomerAccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &customerAccountService{
		customers: customers,
		db:        db,
		tokens:    tokens,
		passwords: passwords,
		guard:     guard,
		logger:    logger.With(slog.String("component", "customer_account_service")),
		opts:      buildOptions(opts),
	}
}

func (s *customerAccountService) lookup() accountLookup[*domain.Customer] {
	return accountLookup[*domain.Customer]{
		byID:       s.customers.GetByID,
		byEmail:    s.customers.GetByEmail,
		byPhone:    s.customers.GetByPhone,
		byUsername: s.customers.GetByUsername,
	}
}

func (s *customerAccountService) Register(ctx context.Context, in RegisterInput) (*domain.Customer, *auth.TokenPair, error) {
	in = in.normalized()
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, nil, err
	}
	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, nil, err
	}

	now := s.opts.now()
	customer, err := domain.NewCustomer(in.Profile, hash, now)
	if err != nil {
		return nil, nil, err
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration rejected: duplicate field", slog.String("error", err.Error()))
		} else {
			s.logger.Error("failed to create customer", slog.String("error", redact.Error(err)))
		}
		return nil, nil, fmt.Errorf("failed to register customer: %w", err)
	}

	pair, err := auth.IssueTokenPair(ctx, s.tokens, customer.ID, domain.RoleCustomer, now)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("customer registered", slog.Int64("customer_id", customer.ID))
	return customer, pair, nil
}

func (s *customerAccountService) Login(ctx context.Context, identifier, password string) (*domain.Customer, *auth.TokenPair, error) {
	customer, err := s.lookup().find(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	if err := s.passwords.Compare(customer.PasswordHash, password); err != nil {
		s.logger.Debug("login rejected: password mismatch", slog.Int64("customer_id", customer.ID))
		return nil, nil, ErrInvalidCredentials
	}
	if !customer.IsActive() {
		return nil, nil, domain.ErrCustomerBanned
	}

	pair, err := auth.IssueTokenPair(ctx, s.tokens, customer.ID, domain.RoleCustomer, s.opts.now())
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("customer logged in", slog.Int64("customer_id", customer.ID))
	return customer, pair, nil
}

func (s *customerAccountService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	return refreshSession(ctx, s.tokens, s.guard, domain.RoleCustomer, refreshToken, s.opts.now())
}

func (s *customerAccountService) Logout(ctx context.Context, customerID int64) error {
	if err := s.customers.SetLastLogout(ctx, customerID, s.opts.now()); err != nil {
		return fmt.Errorf("failed to log out customer: %w", err)
	}
	s.guard.Refresh(ctx, domain.RoleCustomer, customerID)
	s.logger.Info("customer logged out", slog.Int64("customer_id", customerID))
	return nil
}

func (s *customerAccountService) Get(ctx context.Context, customerID int64) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (s *customerAccountService) UpdateProfile(
	ctx context.Context,
	customerID int64,
	update domain.ProfileUpdate,
) (*domain.Customer, error) {
	return updateCustomerProfile(ctx, s.db, s.customers, customerID, update, s.opts.now())
}

// updateCustomerProfile is shared with the admin-side customer update.
func updateCustomerProfile(
	ctx context.Context,
	db *sql.DB,
	customers store.CustomerStore,
	customerID int64,
	update domain.ProfileUpdate,
	now time.Time,
) (*domain.Customer, error) {
	if update.Empty() {
		return nil, domain.NewValidationError("profile", "at least one field must be provided", nil)
	}

	var updated *domain.Customer
	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := customers.WithTx(tx)

		customer, err := txStore.GetByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if err := update.Apply(&customer.Profile); err != nil {
			return err
		}
		customer.UpdatedAt = now.UTC()
		if err := txStore.Update(ctx, customer); err != nil {
			return err
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update customer profile: %w", err)
	}
	return updated, nil
}

// refreshSession exchanges a refresh token for a new pair after the same
// checks an access token gets on a protected route.
func refreshSession(
	ctx context.Context,
	tokens auth.JWTService,
	guard SessionGuard,
	role domain.Role,
	refreshToken string,
	now time.Time,
) (*auth.TokenPair, error) {
	claims, err := tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, auth.ErrInvalidRefreshToken
	}
	if _, err := guard.Authorize(ctx, claims, role); err != nil {
		return nil, err
	}
	return auth.IssueTokenPair(ctx, tokens, claims.AccountID, role, now)
}
