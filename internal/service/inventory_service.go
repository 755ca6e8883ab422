package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/metrics"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
)

// NewItemInput describes an item to add to the catalogue.
type NewItemInput struct {
	Name         string
	Category     domain.Category
	PricePerUnit decimal.Decimal
	Currency     domain.Currency
	Quantity     int
	Description  string
}

// InventoryService manages the catalogue and its stock.
type InventoryService interface {
	AddItem(ctx context.Context, in NewItemInput) (*domain.Item, error)
	Restock(ctx context.Context, ref domain.ItemRef, quantity int) (*domain.Item, error)
	UpdateItem(ctx context.Context, ref domain.ItemRef, update domain.ItemUpdate) (*domain.Item, error)
	DeleteItem(ctx context.Context, ref domain.ItemRef) error
	GetItem(ctx context.Context, ref domain.ItemRef) (*domain.Item, error)
	ListItems(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error)
	ListMovements(ctx context.Context, ref domain.ItemRef, page store.Page) ([]*domain.StockMovement, error)

	// SweepLowStock reports items whose quantity is below threshold and
	// publishes their count as a gauge.
	SweepLowStock(ctx context.Context, threshold int) ([]*domain.Item, error)
}

type inventoryService struct {
	db     *sql.DB
	items  store.ItemStore
	logger *slog.Logger
	opts   options
}

// NewInventoryService creates an InventoryService.
func NewInventoryService(db *sql.DB, items store.ItemStore, logger *slog.Logger, opts ...Option) InventoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &inventoryService{
		db:     db,
		items:  items,
		logger: logger.With(slog.String("component", "inventory_service")),
		opts:   buildOptions(opts),
	}
}

func (s *inventoryService) AddItem(ctx context.Context, in NewItemInput) (*domain.Item, error) {
	now := s.opts.now()
	item, err := domain.NewItem(in.Name, in.Category, in.PricePerUnit, in.Currency, in.Quantity, in.Description, now)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		items := s.items.WithTx(tx)
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		movement := domain.NewStockMovement(item.ID, nil, domain.MovementInitial, item.Quantity, now)
		return items.AddMovement(ctx, &movement)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	s.logger.Info("item added",
		slog.Int64("item_id", item.ID),
		slog.String("name", item.Name),
		slog.Int("quantity", item.Quantity))
	return item, nil
}

// lockOne locks a single item by ID or name inside tx.
func lockOne(ctx context.Context, items store.ItemStore, ref domain.ItemRef) (*domain.Item, error) {
	locked, err := items.LockForPurchase(ctx, []domain.ItemRef{ref})
	if err != nil {
		return nil, err
	}
	if len(locked) != 1 {
		return nil, &store.MissingItemError{Ref: ref.String()}
	}
	return locked[0], nil
}

func (s *inventoryService) Restock(ctx context.Context, ref domain.ItemRef, quantity int) (*domain.Item, error) {
	if quantity < 1 {
		return nil, domain.NewValidationError("quantity", "must be at least 1", nil)
	}

	var restocked *domain.Item
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		items := s.items.WithTx(tx)

		item, err := lockOne(ctx, items, ref)
		if err != nil {
			return err
		}
		if err := item.Restock(quantity); err != nil {
			return err
		}
		now := s.opts.now()
		item.UpdatedAt = now.UTC()
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		movement := domain.NewStockMovement(item.ID, nil, domain.MovementRestock, quantity, now)
		if err := items.AddMovement(ctx, &movement); err != nil {
			return err
		}
		restocked = item
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restock item %s: %w", ref, err)
	}

	s.logger.Info("item restocked",
		slog.Int64("item_id", restocked.ID),
		slog.Int("added", quantity),
		slog.Int("quantity", restocked.Quantity))
	return restocked, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, ref domain.ItemRef, update domain.ItemUpdate) (*domain.Item, error) {
	if update.Empty() {
		return nil, domain.NewValidationError("item", "at least one field must be provided", nil)
	}

	var updated *domain.Item
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		items := s.items.WithTx(tx)

		item, err := lockOne(ctx, items, ref)
		if err != nil {
			return err
		}
		if err := update.Apply(item); err != nil {
			return err
		}
		item.UpdatedAt = s.opts.now().UTC()
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", ref, err)
	}
	return updated, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, ref domain.ItemRef) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		items := s.items.WithTx(tx)

		item, err := lockOne(ctx, items, ref)
		if err != nil {
			return err
		}
		return items.Delete(ctx, item.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete item %s: %w", ref, err)
	}
	s.logger.Info("item deleted", slog.String("item", ref.String()))
	return nil
}

func (s *inventoryService) GetItem(ctx context.Context, ref domain.ItemRef) (*domain.Item, error) {
	item, err := s.items.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	filter.Page = filter.Page.Normalize()
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *inventoryService) ListMovements(
	ctx context.Context,
	ref domain.ItemRef,
	page store.Page,
) ([]*domain.StockMovement, error) {
	item, err := s.items.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	movements, err := s.items.ListMovements(ctx, item.ID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

func (s *inventoryService) SweepLowStock(ctx context.Context, threshold int) ([]*domain.Item, error) {
	low, err := s.items.ListLowStock(ctx, threshold)
	if err != nil {
		s.logger.Error("low-stock sweep failed", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to list low-stock items: %w", err)
	}

	metrics.LowStockItems.Set(float64(len(low)))
	for _, item := range low {
		s.logger.Warn("item low on stock",
			slog.Int64("item_id", item.ID),
			slog.String("name", item.Name),
			slog.Int("quantity", item.Quantity),
			slog.Int("threshold", threshold))
	}
	s.logger.Info("low-stock sweep finished", slog.Int("low_stock_items", len(low)))
	return low, nil
}
