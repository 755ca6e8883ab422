package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
)

const adminSelect = `
	SELECT id, ` + profileColumns + `, password_hash, last_logout, created_at, updated_at
	FROM admins
`

// PostgresAdminStore implements store.AdminStore.
type PostgresAdminStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAdminStore creates an admin store over db.
func NewPostgresAdminStore(db store.DBTX, logger *slog.Logger) *PostgresAdminStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAdminStore{
		db:     db,
		logger: logger.With(slog.String("component", "admin_store")),
	}
}

var _ store.AdminStore = (*PostgresAdminStore)(nil)

func scanAdmin(row rowScanner) (*domain.Admin, error) {
	var a domain.Admin
	var lastLogout sql.NullTime

	dest := append([]any{&a.ID}, profileDest(&a.Profile)...)
	dest = append(dest, &a.PasswordHash, &lastLogout, &a.CreatedAt, &a.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	a.LastLogout = nullTimePtr(lastLogout)
	return &a, nil
}

// Create implements store.AdminStore.Create.
func (s *PostgresAdminStore) Create(ctx context.Context, admin *domain.Admin) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO admins (` + profileColumns + `, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	args := append(profileArgs(admin.Profile), admin.PasswordHash, admin.CreatedAt, admin.UpdatedAt)

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&admin.ID); err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("admin already exists", slog.String("error", redact.Error(mapped)))
		} else {
			log.Error("failed to create admin", slog.String("error", redact.Error(err)))
		}
		return mapped
	}

	log.Info("admin created", slog.Int64("admin_id", admin.ID))
	return nil
}

func (s *PostgresAdminStore) getOne(ctx context.Context, where string, arg any) (*domain.Admin, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	admin, err := scanAdmin(s.db.QueryRowContext(ctx, adminSelect+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAdminNotFound
		}
		log.Error("failed to get admin",
			slog.String("where", where),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	return admin, nil
}

// GetByID implements store.AdminStore.GetByID.
func (s *PostgresAdminStore) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	return s.getOne(ctx, "WHERE id = $1", id)
}

// GetByUsername implements store.AdminStore.GetByUsername.
func (s *PostgresAdminStore) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return s.getOne(ctx, "WHERE username = $1", username)
}

// GetByEmail implements store.AdminStore.GetByEmail.
func (s *PostgresAdminStore) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return s.getOne(ctx, "WHERE LOWER(email) = LOWER($1)", email)
}

// GetByPhone implements store.AdminStore.GetByPhone.
func (s *PostgresAdminStore) GetByPhone(ctx context.Context, phone string) (*domain.Admin, error) {
	return s.getOne(ctx, "WHERE phone = $1", phone)
}

// Update implements store.AdminStore.Update.
func (s *PostgresAdminStore) Update(ctx context.Context, admin *domain.Admin) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p := admin.Profile
	result, err := s.db.ExecContext(ctx, `
		UPDATE admins
		SET first_name = $1, last_name = $2, phone = $3, age = $4, gender = $5,
		    marital_status = $6, updated_at = $7
		WHERE id = $8
	`, p.FirstName, p.LastName, p.Phone, p.Age, string(p.Gender), string(p.MaritalStatus),
		admin.UpdatedAt, admin.ID)
	if err != nil {
		log.Error("failed to update admin",
			slog.Int64("admin_id", admin.ID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrAdminNotFound)
}

// SetLastLogout implements store.AdminStore.SetLastLogout.
func (s *PostgresAdminStore) SetLastLogout(ctx context.Context, id int64, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE admins SET last_logout = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to set last logout",
			slog.Int64("admin_id", id),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrAdminNotFound)
}

// WithTx implements store.AdminStore.WithTx.
func (s *PostgresAdminStore) WithTx(tx *sql.Tx) store.AdminStore {
	return &PostgresAdminStore{db: tx, logger: s.logger}
}
