package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// AdminAccountService covers an operator's own account.
type AdminAccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Admin, *auth.TokenPair, error)
	Login(ctx context.Context, identifier, password string) (*domain.Admin, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, adminID int64) error
	Get(ctx context.Context, adminID int64) (*domain.Admin, error)
	UpdateProfile(ctx context.Context, adminID int64, update domain.ProfileUpdate) (*domain.Admin, error)
}

type adminAccountService struct {
	admins    store.AdminStore
	db        *sql.DB
	tokens    auth.JWTService
	passwords PasswordHasherVerifier
	guard     SessionGuard
	logger    *slog.Logger
	opts      options
}

// NewAdminAccountService creates an AdminAccountService.
func NewAdminAccountService(
	admins store.AdminStore,
	db *sql.DB,
	tokens auth.JWTService,
	passwords PasswordHasherVerifier,
	guard SessionGuard,
	logger *slog.Logger,
	opts ...Option,
) AdminAccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &adminAccountService{
		admins:    admins,
		db:        db,
		tokens:    tokens,
		passwords: passwords,
		guard:     guard,
		logger:    logger.With(slog.String("component", "admin_account_service")),
		opts:      buildOptions(opts),
	}
}

func (s *adminAccountService) Register(ctx context.Context, in RegisterInput) (*domain.Admin, *auth.TokenPair, error) {
	in = in.normalized()
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, nil, err
	}
	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, nil, err
	}

	now := s.opts.now()
	admin, err := domain.NewAdmin(in.Profile, hash, now)
	if err != nil {
		return nil, nil, err
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if !store.IsDuplicateError(err) {
			s.logger.Error("failed to create admin", slog.String("error", redact.Error(err)))
		}
		return nil, nil, fmt.Errorf("failed to register admin: %w", err)
	}

	pair, err := auth.IssueTokenPair(ctx, s.tokens, admin.ID, domain.RoleAdmin, now)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("admin registered", slog.Int64("admin_id", admin.ID))
	return admin, pair, nil
}

func (s *adminAccountService) Login(ctx context.Context, identifier, password string) (*domain.Admin, *auth.TokenPair, error) {
	lookup := accountLookup[*domain.Admin]{
		byID:       s.admins.GetByID,
		byEmail:    s.admins.GetByEmail,
		byPhone:    s.admins.GetByPhone,
		byUsername: s.admins.GetByUsername,
	}
	admin, err := lookup.find(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if err := s.passwords.Compare(admin.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := auth.IssueTokenPair(ctx, s.tokens, admin.ID, domain.RoleAdmin, s.opts.now())
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("admin logged in", slog.Int64("admin_id", admin.ID))
	return admin, pair, nil
}

func (s *adminAccountService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	return refreshSession(ctx, s.tokens, s.guard, domain.RoleAdmin, refreshToken, s.opts.now())
}

func (s *adminAccountService) Logout(ctx context.Context, adminID int64) error {
	if err := s.admins.SetLastLogout(ctx, adminID, s.opts.now()); err != nil {
		return fmt.Errorf("failed to log out admin: %w", err)
	}
	s.guard.Refresh(ctx, domain.RoleAdmin, adminID)
	s.logger.Info("admin logged out", slog.Int64("admin_id", adminID))
	return nil
}

func (s *adminAccountService) Get(ctx context.Context, adminID int64) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

func (s *adminAccountService) UpdateProfile(
	ctx context.Context,
	adminID int64,
	update domain.ProfileUpdate,
) (*domain.Admin, error) {
	if update.Empty() {
		return nil, domain.NewValidationError("profile", "at least one field must be provided", nil)
	}

	var updated *domain.Admin
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.admins.WithTx(tx)

		admin, err := txStore.GetByID(ctx, adminID)
		if err != nil {
			return err
		}
		if err := update.Apply(&admin.Profile); err != nil {
			return err
		}
		admin.UpdatedAt = s.opts.now().UTC()
		if err := txStore.Update(ctx, admin); err != nil {
			return err
		}
		updated = admin
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update admin profile: %w", err)
	}
	return updated, nil
}
