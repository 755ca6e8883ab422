package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/metrics"
	"github.com/phrazzld/storefront-api/internal/platform/telemetry"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SalesService is the customer-facing shop: browsing, buying and undoing a purchase.
type SalesService interface {
	// Purchase buys every listed item in one all-or-nothing transaction.
	// identifiers must be all IDs or all names; duplicates are merged.
	Purchase(ctx context.Context, customerID int64, identifiers []string, quantities []int) (*domain.Transaction, error)

	// Reverse undoes one of the customer's own purchases within the reversal window.
	Reverse(ctx context.Context, customerID, transactionID int64) (*domain.Transaction, error)

	ListTransactions(ctx context.Context, customerID int64, page store.Page) ([]*domain.Transaction, error)
	GetItem(ctx context.Context, ref domain.ItemRef) (*domain.Item, error)
	ListItems(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error)
}

type salesService struct {
	db           *sql.DB
	customers    store.CustomerStore
	items        store.ItemStore
	transactions store.TransactionStore
	reverser     *reverser
	logger       *slog.Logger
	opts         options
}

// NewSalesService creates a SalesService. window is the reversal window; zero
// means domain.DefaultReversalWindow.
func NewSalesService(
	db *sql.DB,
	customers store.CustomerStore,
	items store.ItemStore,
	transactions store.TransactionStore,
	window time.Duration,
	logger *slog.Logger,
	opts ...Option,
) SalesService {
	if logger == nil {
		logger = slog.Default()
	}
	if window <= 0 {
		window = domain.DefaultReversalWindow
	}
	o := buildOptions(opts)
	logger = logger.With(slog.String("component", "sales_service"))
	return &salesService{
		db:           db,
		customers:    customers,
		items:        items,
		transactions: transactions,
		reverser: &reverser{
			db:           db,
			customers:    customers,
			items:        items,
			transactions: transactions,
			window:       window,
			now:          o.now,
			logger:       logger,
		},
		logger: logger,
		opts:   o,
	}
}

// purchaseLine is one merged entry of a purchase request.
type purchaseLine struct {
	ref      domain.ItemRef
	quantity int
}

// mergePurchase validates the parallel request lists and sums quantities of
// repeated identifiers, keeping first-seen order.
func mergePurchase(identifiers []string, quantities []int) ([]purchaseLine, error) {
	if len(identifiers) == 0 {
		return nil, domain.NewValidationError("item_ids_or_names", "at least one item is required", nil)
	}
	if len(identifiers) != len(quantities) {
		return nil, domain.NewValidationError("item_quantities", "must have one quantity per item", nil)
	}
	for _, q := range quantities {
		if q < 1 {
			return nil, domain.NewValidationError("item_quantities", "every quantity must be at least 1", nil)
		}
	}

	refs, err := domain.ParseItemRefs(identifiers)
	if err != nil {
		return nil, err
	}

	index := make(map[domain.ItemRef]int, len(refs))
	lines := make([]purchaseLine, 0, len(refs))
	for i, ref := range refs {
		if at, ok := index[ref]; ok {
			lines[at].quantity += quantities[i]
			continue
		}
		index[ref] = len(lines)
		lines = append(lines, purchaseLine{ref: ref, quantity: quantities[i]})
	}
	return lines, nil
}

func (s *salesService) Purchase(
	ctx context.Context,
	customerID int64,
	identifiers []string,
	quantities []int,
) (*domain.Transaction, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "sales.Purchase", trace.WithAttributes(
		attribute.Int64("storefront.customer_id", customerID),
		attribute.Int("storefront.line_count", len(identifiers)),
	))
	defer span.End()

	lines, err := mergePurchase(identifiers, quantities)
	if err != nil {
		metrics.Purchases.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	var created *domain.Transaction
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		customers := s.customers.WithTx(tx)
		items := s.items.WithTx(tx)
		transactions := s.transactions.WithTx(tx)

		customer, err := customers.GetByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if !customer.IsActive() {
			return domain.ErrCustomerBanned
		}

		refs := make([]domain.ItemRef, len(lines))
		for i, l := range lines {
			refs[i] = l.ref
		}
		locked, err := items.LockForPurchase(ctx, refs)
		if err != nil {
			return err
		}
		byRef := make(map[domain.ItemRef]*domain.Item, len(locked))
		for _, item := range locked {
			byRef[domain.ItemRef{ID: item.ID}] = item
			byRef[domain.ItemRef{Name: item.Name}] = item
		}

		now := s.opts.now()
		txnLines := make([]domain.TransactionLine, 0, len(lines))
		for _, l := range lines {
			item, ok := byRef[l.ref]
			if !ok {
				return &store.MissingItemError{Ref: l.ref.String()}
			}
			txnLines = append(txnLines, domain.LineFor(item, l.quantity))
			if err := item.Withdraw(l.quantity); err != nil {
				return err
			}
		}

		txn, err := domain.NewTransaction(customer.ID, txnLines, now)
		if err != nil {
			return err
		}
		if err := customer.Pay(txn.Totals); err != nil {
			return err
		}
		customer.UpdatedAt = now.UTC()

		if err := customers.Update(ctx, customer); err != nil {
			return err
		}
		for _, item := range locked {
			item.UpdatedAt = now.UTC()
			if err := items.Update(ctx, item); err != nil {
				return err
			}
		}
		if err := transactions.Create(ctx, txn); err != nil {
			return err
		}
		for _, line := range txn.Lines {
			movement := domain.NewStockMovement(*line.ItemID, &txn.ID, domain.MovementSale, line.Quantity, now)
			if err := items.AddMovement(ctx, &movement); err != nil {
				return err
			}
		}

		created = txn
		return nil
	})
	if err != nil {
		outcome := purchaseOutcome(err)
		metrics.Purchases.WithLabelValues(outcome).Inc()
		span.RecordError(err)
		if outcome == metrics.OutcomeFailed {
			span.SetStatus(codes.Error, "purchase failed")
			s.logger.Error("purchase failed",
				slog.Int64("customer_id", customerID),
				slog.String("error", redact.Error(err)))
		} else {
			s.logger.Info("purchase rejected",
				slog.Int64("customer_id", customerID),
				slog.String("reason", outcome),
				slog.String("error", redact.Error(err)))
		}
		return nil, fmt.Errorf("purchase failed: %w", err)
	}

	metrics.Purchases.WithLabelValues(metrics.OutcomeCompleted).Inc()
	span.SetAttributes(attribute.Int64("storefront.transaction_id", created.ID))
	s.logger.Info("purchase completed",
		slog.Int64("customer_id", customerID),
		slog.Int64("transaction_id", created.ID),
		slog.String("total_lbp", created.Totals.LBP.StringFixed(domain.MoneyScale)),
		slog.String("total_usd", created.Totals.USD.StringFixed(domain.MoneyScale)))
	return created, nil
}

func purchaseOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.OutcomeInsufficientStock
	case errors.Is(err, domain.ErrInsufficientBalance):
		return metrics.OutcomeInsufficientBalance
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrCustomerBanned),
		errors.Is(err, store.ErrNotFound):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}

func (s *salesService) Reverse(ctx context.Context, customerID, transactionID int64) (*domain.Transaction, error) {
	return s.reverser.reverse(ctx, domain.RoleCustomer, customerID, transactionID)
}

func (s *salesService) ListTransactions(ctx context.Context, customerID int64, page store.Page) ([]*domain.Transaction, error) {
	txns, err := s.transactions.ListByCustomer(ctx, customerID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *salesService) GetItem(ctx context.Context, ref domain.ItemRef) (*domain.Item, error) {
	item, err := s.items.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *salesService) ListItems(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	filter.Page = filter.Page.Normalize()
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}
