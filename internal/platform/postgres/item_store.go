package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
)

const itemSelect = `
	SELECT id, name, category, price_per_unit, currency, quantity, description, created_at, updated_at
	FROM items
`

// PostgresItemStore implements store.ItemStore over the items and
// stock_movements tables.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates an item store over db.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

var _ store.ItemStore = (*PostgresItemStore)(nil)

func scanItem(row rowScanner) (*domain.Item, error) {
	var i domain.Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.PricePerUnit,
		&i.Currency,
		&i.Quantity,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *PostgresItemStore) queryItems(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query items", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan item row", slog.String("error", redact.Error(err)))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning item rows", slog.String("error", redact.Error(err)))
		return nil, err
	}
	return items, nil
}

// Create implements store.ItemStore.Create.
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO items (name, category, price_per_unit, currency, quantity, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		item.Name,
		string(item.Category),
		item.PricePerUnit,
		string(item.Currency),
		item.Quantity,
		item.Description,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrItemNameExists) {
			log.Debug("item name already exists", slog.String("name", item.Name))
		} else {
			log.Error("failed to create item",
				slog.String("name", item.Name),
				slog.String("error", redact.Error(err)))
		}
		return mapped
	}

	log.Info("item created",
		slog.Int64("item_id", item.ID),
		slog.String("name", item.Name),
		slog.Int("quantity", item.Quantity))
	return nil
}

// Get implements store.ItemStore.Get.
func (s *PostgresItemStore) Get(ctx context.Context, ref domain.ItemRef) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, arg := "WHERE name = $1", any(ref.Name)
	if ref.ByID() {
		where, arg = "WHERE id = $1", ref.ID
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, itemSelect+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found", slog.String("ref", ref.String()))
			return nil, &store.MissingItemError{Ref: ref.String()}
		}
		log.Error("failed to get item",
			slog.String("ref", ref.String()),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	return item, nil
}

// LockForPurchase implements store.ItemStore.LockForPurchase.
func (s *PostgresItemStore) LockForPurchase(ctx context.Context, refs []domain.ItemRef) ([]*domain.Item, error) {
	if len(refs) == 0 {
		return []*domain.Item{}, nil
	}

	var items []*domain.Item
	var err error
	if refs[0].ByID() {
		ids := make([]int64, len(refs))
		for i, r := range refs {
			ids[i] = r.ID
		}
		items, err = s.queryItems(ctx, itemSelect+"WHERE id = ANY($1) ORDER BY id FOR UPDATE", ids)
	} else {
		names := make([]string, len(refs))
		for i, r := range refs {
			names[i] = r.Name
		}
		items, err = s.queryItems(ctx, itemSelect+"WHERE name = ANY($1) ORDER BY id FOR UPDATE", names)
	}
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(items))
	for _, item := range items {
		if refs[0].ByID() {
			found[domain.ItemRef{ID: item.ID}.String()] = true
		} else {
			found[item.Name] = true
		}
	}
	for _, r := range refs {
		if !found[r.String()] {
			logger.FromContextOrDefault(ctx, s.logger).Debug("item to lock not found",
				slog.String("ref", r.String()))
			return nil, &store.MissingItemError{Ref: r.String()}
		}
	}

	return items, nil
}

// LockByIDs implements store.ItemStore.LockByIDs.
func (s *PostgresItemStore) LockByIDs(ctx context.Context, ids []int64) ([]*domain.Item, error) {
	if len(ids) == 0 {
		return []*domain.Item{}, nil
	}
	return s.queryItems(ctx, itemSelect+"WHERE id = ANY($1) ORDER BY id FOR UPDATE", ids)
}

// Update implements store.ItemStore.Update. UpdatedAt is written as the caller set it.
func (s *PostgresItemStore) Update(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET name = $1, category = $2, price_per_unit = $3, currency = $4,
		    quantity = $5, description = $6, updated_at = $7
		WHERE id = $8
	`,
		item.Name,
		string(item.Category),
		item.PricePerUnit,
		string(item.Currency),
		item.Quantity,
		item.Description,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			log.Error("failed to update item",
				slog.Int64("item_id", item.ID),
				slog.String("error", redact.Error(err)))
		}
		return mapped
	}
	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		return err
	}

	log.Debug("item updated",
		slog.Int64("item_id", item.ID),
		slog.Int("quantity", item.Quantity))
	return nil
}

// Delete implements store.ItemStore.Delete. Foreign keys null out
// transaction line references and cascade to reviews and movements.
func (s *PostgresItemStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete item",
			slog.Int64("item_id", id),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		return err
	}

	log.Info("item deleted", slog.Int64("item_id", id))
	return nil
}

// List implements store.ItemStore.List.
func (s *PostgresItemStore) List(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	page := filter.Page.Normalize()

	var category any
	if filter.Category != nil {
		category = string(*filter.Category)
	}

	return s.queryItems(ctx, itemSelect+`
		WHERE ($1::text IS NULL OR category = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`, category, page.Limit, page.Offset)
}

// ListLowStock implements store.ItemStore.ListLowStock.
func (s *PostgresItemStore) ListLowStock(ctx context.Context, threshold int) ([]*domain.Item, error) {
	return s.queryItems(ctx, itemSelect+`
		WHERE quantity < $1
		ORDER BY quantity, id
	`, threshold)
}

// AddMovement implements store.ItemStore.AddMovement.
func (s *PostgresItemStore) AddMovement(ctx context.Context, movement *domain.StockMovement) error {
	var txnID any
	if movement.TransactionID != nil {
		txnID = *movement.TransactionID
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO stock_movements (item_id, transaction_id, kind, delta, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		movement.ItemID,
		txnID,
		string(movement.Kind),
		movement.Delta,
		movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to record stock movement",
			slog.Int64("item_id", movement.ItemID),
			slog.String("kind", string(movement.Kind)),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return nil
}

// ListMovements implements store.ItemStore.ListMovements.
func (s *PostgresItemStore) ListMovements(
	ctx context.Context,
	itemID int64,
	page store.Page,
) ([]*domain.StockMovement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, transaction_id, kind, delta, created_at
		FROM stock_movements
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, itemID, page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to query stock movements",
			slog.Int64("item_id", itemID),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	movements := []*domain.StockMovement{}
	for rows.Next() {
		var m domain.StockMovement
		var txnID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.ItemID, &txnID, &m.Kind, &m.Delta, &m.CreatedAt); err != nil {
			log.Error("failed to scan stock movement", slog.String("error", err.Error()))
			return nil, err
		}
		if txnID.Valid {
			id := txnID.Int64
			m.TransactionID = &id
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}

// WithTx implements store.ItemStore.WithTx.
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{db: tx, logger: s.logger}
}
