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

const customerSelect = `
	SELECT id, ` + profileColumns + `, password_hash, balance_lbp, balance_usd,
	       status, last_logout, created_at, updated_at
	FROM customers
`

// PostgresCustomerStore implements store.CustomerStore.
type PostgresCustomerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCustomerStore creates a customer store over db, which may be a
// pool or a transaction. A nil logger falls back to slog.Default().
func NewPostgresCustomerStore(db store.DBTX, logger *slog.Logger) *PostgresCustomerStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCustomerStore{
		db:     db,
		logger: logger.With(slog.String("component", "customer_store")),
	}
}

var _ store.CustomerStore = (*PostgresCustomerStore)(nil)

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	var lastLogout sql.NullTime

	dest := append([]any{&c.ID}, profileDest(&c.Profile)...)
	dest = append(dest,
		&c.PasswordHash,
		&c.Balances.LBP,
		&c.Balances.USD,
		&c.Status,
		&lastLogout,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c.LastLogout = nullTimePtr(lastLogout)
	return &c, nil
}

// Create implements store.CustomerStore.Create.
func (s *PostgresCustomerStore) Create(ctx context.Context, customer *domain.Customer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO customers (` + profileColumns + `, password_hash, balance_lbp, balance_usd,
		                       status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	args := append(profileArgs(customer.Profile),
		customer.PasswordHash,
		customer.Balances.LBP,
		customer.Balances.USD,
		string(customer.Status),
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&customer.ID); err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("customer already exists", slog.String("error", redact.Error(mapped)))
		} else {
			log.Error("failed to create customer", slog.String("error", redact.Error(err)))
		}
		return mapped
	}

	log.Info("customer created", slog.Int64("customer_id", customer.ID))
	return nil
}

func (s *PostgresCustomerStore) getOne(ctx context.Context, where string, arg any) (*domain.Customer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	customer, err := scanCustomer(s.db.QueryRowContext(ctx, customerSelect+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("customer not found", slog.String("where", where))
			return nil, store.ErrCustomerNotFound
		}
		log.Error("failed to get customer",
			slog.String("where", where),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	return customer, nil
}

// GetByID implements store.CustomerStore.GetByID.
func (s *PostgresCustomerStore) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.getOne(ctx, "WHERE id = $1", id)
}

// GetByIDForUpdate implements store.CustomerStore.GetByIDForUpdate.
func (s *PostgresCustomerStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.getOne(ctx, "WHERE id = $1 FOR UPDATE", id)
}

// GetByUsername implements store.CustomerStore.GetByUsername.
func (s *PostgresCustomerStore) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	return s.getOne(ctx, "WHERE username = $1", username)
}

// GetByEmail implements store.CustomerStore.GetByEmail. Emails compare case-insensitively.
func (s *PostgresCustomerStore) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return s.getOne(ctx, "WHERE LOWER(email) = LOWER($1)", email)
}

// GetByPhone implements store.CustomerStore.GetByPhone.
func (s *PostgresCustomerStore) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	return s.getOne(ctx, "WHERE phone = $1", phone)
}

// Update implements store.CustomerStore.Update. UpdatedAt is written as the caller set it.
func (s *PostgresCustomerStore) Update(ctx context.Context, customer *domain.Customer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, phone = $3, age = $4, gender = $5,
		    marital_status = $6, balance_lbp = $7, balance_usd = $8, status = $9, updated_at = $10
		WHERE id = $11
	`
	p := customer.Profile
	result, err := s.db.ExecContext(ctx, query,
		p.FirstName,
		p.LastName,
		p.Phone,
		p.Age,
		string(p.Gender),
		string(p.MaritalStatus),
		customer.Balances.LBP,
		customer.Balances.USD,
		string(customer.Status),
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		log.Error("failed to update customer",
			slog.Int64("customer_id", customer.ID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCustomerNotFound); err != nil {
		log.Debug("customer not found for update", slog.Int64("customer_id", customer.ID))
		return err
	}

	log.Debug("customer updated",
		slog.Int64("customer_id", customer.ID),
		slog.String("status", string(customer.Status)))
	return nil
}

// List implements store.CustomerStore.List.
func (s *PostgresCustomerStore) List(ctx context.Context, filter store.CustomerFilter) ([]*domain.Customer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page := filter.Page.Normalize()

	var status any
	if filter.Status != nil {
		status = string(*filter.Status)
	}

	query := customerSelect + `
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, status, page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to list customers", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	customers := []*domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			log.Error("failed to scan customer row", slog.String("error", redact.Error(err)))
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning customer rows", slog.String("error", redact.Error(err)))
		return nil, err
	}

	log.Debug("listed customers", slog.Int("count", len(customers)))
	return customers, nil
}

// SetLastLogout implements store.CustomerStore.SetLastLogout.
func (s *PostgresCustomerStore) SetLastLogout(ctx context.Context, id int64, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE customers SET last_logout = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		log.Error("failed to set last logout",
			slog.Int64("customer_id", id),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCustomerNotFound)
}

// WithTx implements store.CustomerStore.WithTx.
func (s *PostgresCustomerStore) WithTx(tx *sql.Tx) store.CustomerStore {
	return &PostgresCustomerStore{db: tx, logger: s.logger}
}
