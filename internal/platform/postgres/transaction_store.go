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

const transactionSelect = `
	SELECT id, customer_id, total_lbp, total_usd, status, created_at, reversed_at
	FROM transactions
`

// PostgresTransactionStore implements store.TransactionStore over the
// transactions and transaction_items tables.
type PostgresTransactionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTransactionStore creates a transaction store over db.
func NewPostgresTransactionStore(db store.DBTX, logger *slog.Logger) *PostgresTransactionStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTransactionStore{
		db:     db,
		logger: logger.With(slog.String("component", "transaction_store")),
	}
}

var _ store.TransactionStore = (*PostgresTransactionStore)(nil)

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var reversedAt sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.CustomerID,
		&t.Totals.LBP,
		&t.Totals.USD,
		&t.Status,
		&t.CreatedAt,
		&reversedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ReversedAt = nullTimePtr(reversedAt)
	return &t, nil
}

// Create implements store.TransactionStore.Create. Run it inside a
// transaction: the header and its lines are separate statements.
func (s *PostgresTransactionStore) Create(ctx context.Context, txn *domain.Transaction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO transactions (customer_id, total_lbp, total_usd, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, txn.CustomerID, txn.Totals.LBP, txn.Totals.USD, string(txn.Status), txn.CreatedAt).Scan(&txn.ID)
	if err != nil {
		log.Error("failed to insert transaction",
			slog.Int64("customer_id", txn.CustomerID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	for _, line := range txn.Lines {
		var itemID any
		if line.ItemID != nil {
			itemID = *line.ItemID
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO transaction_items
			    (transaction_id, item_id, item_name, category, unit_price, currency, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			txn.ID,
			itemID,
			line.ItemName,
			string(line.Category),
			line.UnitPrice,
			string(line.Currency),
			line.Quantity,
		)
		if err != nil {
			log.Error("failed to insert transaction line",
				slog.Int64("transaction_id", txn.ID),
				slog.String("item_name", line.ItemName),
				slog.String("error", redact.Error(err)))
			return MapError(err)
		}
	}

	log.Info("transaction recorded",
		slog.Int64("transaction_id", txn.ID),
		slog.Int64("customer_id", txn.CustomerID),
		slog.Int("lines", len(txn.Lines)))
	return nil
}

func (s *PostgresTransactionStore) getOne(ctx context.Context, id int64, lock bool) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := transactionSelect + "WHERE id = $1"
	if lock {
		query += " FOR UPDATE"
	}

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("transaction not found", slog.Int64("transaction_id", id))
			return nil, store.ErrTransactionNotFound
		}
		log.Error("failed to get transaction",
			slog.Int64("transaction_id", id),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	if err := s.attachLines(ctx, []*domain.Transaction{txn}); err != nil {
		return nil, err
	}
	return txn, nil
}

// GetByID implements store.TransactionStore.GetByID.
func (s *PostgresTransactionStore) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.getOne(ctx, id, false)
}

// GetByIDForUpdate implements store.TransactionStore.GetByIDForUpdate.
func (s *PostgresTransactionStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.getOne(ctx, id, true)
}

// attachLines loads the lines of every transaction in txns with one query.
func (s *PostgresTransactionStore) attachLines(ctx context.Context, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	byID := make(map[int64]*domain.Transaction, len(txns))
	ids := make([]int64, len(txns))
	for i, t := range txns {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Lines = []domain.TransactionLine{}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, item_id, item_name, category, unit_price, currency, quantity
		FROM transaction_items
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, id
	`, ids)
	if err != nil {
		log.Error("failed to query transaction lines", slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		var txnID int64
		var itemID sql.NullInt64
		var line domain.TransactionLine
		err := rows.Scan(
			&txnID,
			&itemID,
			&line.ItemName,
			&line.Category,
			&line.UnitPrice,
			&line.Currency,
			&line.Quantity,
		)
		if err != nil {
			log.Error("failed to scan transaction line", slog.String("error", err.Error()))
			return err
		}
		if itemID.Valid {
			id := itemID.Int64
			line.ItemID = &id
		}
		if t, ok := byID[txnID]; ok {
			t.Lines = append(t.Lines, line)
		}
	}
	return rows.Err()
}

// ListByCustomer implements store.TransactionStore.ListByCustomer.
func (s *PostgresTransactionStore) ListByCustomer(
	ctx context.Context,
	customerID int64,
	page store.Page,
) ([]*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	rows, err := s.db.QueryContext(ctx, transactionSelect+`
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, customerID, page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to list transactions",
			slog.Int64("customer_id", customerID),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	txns := []*domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			_ = rows.Close()
			log.Error("failed to scan transaction row", slog.String("error", err.Error()))
			return nil, err
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Lines come from a second query, which needs the connection back when db is a *sql.Tx.
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}

	if err := s.attachLines(ctx, txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// MarkReversed implements store.TransactionStore.MarkReversed.
func (s *PostgresTransactionStore) MarkReversed(ctx context.Context, id int64, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET status = $1, reversed_at = $2
		WHERE id = $3
	`, string(domain.TransactionReversed), at.UTC(), id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to mark transaction reversed",
			slog.Int64("transaction_id", id),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTransactionNotFound)
}

// HasPurchased implements store.TransactionStore.HasPurchased.
func (s *PostgresTransactionStore) HasPurchased(ctx context.Context, customerID, itemID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM transactions t
			JOIN transaction_items ti ON ti.transaction_id = t.id
			WHERE t.customer_id = $1 AND ti.item_id = $2 AND t.status = $3
		)
	`, customerID, itemID, string(domain.TransactionCompleted)).Scan(&exists)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check purchase history",
			slog.Int64("customer_id", customerID),
			slog.Int64("item_id", itemID),
			slog.String("error", redact.Error(err)))
		return false, MapError(err)
	}
	return exists, nil
}

// WithTx implements store.TransactionStore.WithTx.
func (s *PostgresTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore {
	return &PostgresTransactionStore{db: tx, logger: s.logger}
}
