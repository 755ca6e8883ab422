package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
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

// reverser undoes a completed purchase. Customers and admins share it; only
// customers are held to ownership.
type reverser struct {
	db           *sql.DB
	customers    store.CustomerStore
	items        store.ItemStore
	transactions store.TransactionStore
	window       time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// reverse refunds the transaction's totals, restocks every line whose item
// still exists and marks the transaction reversed. ownerID is checked only
// when actor is a customer.
func (r *reverser) reverse(ctx context.Context, actor domain.Role, ownerID, txnID int64) (*domain.Transaction, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "sales.Reverse", trace.WithAttributes(
		attribute.String("storefront.actor", string(actor)),
		attribute.Int64("storefront.transaction_id", txnID),
	))
	defer span.End()

	var reversed *domain.Transaction
	err := store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		transactions := r.transactions.WithTx(tx)
		customers := r.customers.WithTx(tx)
		items := r.items.WithTx(tx)

		txn, err := transactions.GetByIDForUpdate(ctx, txnID)
		if err != nil {
			return err
		}
		if actor == domain.RoleCustomer && txn.CustomerID != ownerID {
			return ErrNotOwned
		}

		now := r.now()
		if err := txn.Reverse(now, r.window); err != nil {
			return err
		}

		customer, err := customers.GetByIDForUpdate(ctx, txn.CustomerID)
		if err != nil {
			return err
		}
		customer.Refund(txn.Totals)
		customer.UpdatedAt = now.UTC()
		if err := customers.Update(ctx, customer); err != nil {
			return err
		}

		if err := restockLines(ctx, items, txn, now); err != nil {
			return err
		}

		if err := transactions.MarkReversed(ctx, txn.ID, *txn.ReversedAt); err != nil {
			return err
		}
		reversed = txn
		return nil
	})

	outcome := metrics.OutcomeCompleted
	if err != nil {
		outcome = metrics.OutcomeRejected
		if !isExpectedReversalError(err) {
			outcome = metrics.OutcomeFailed
			r.logger.Error("transaction reversal failed",
				slog.Int64("transaction_id", txnID),
				slog.String("error", redact.Error(err)))
			span.SetStatus(codes.Error, "reversal failed")
		}
		span.RecordError(err)
		metrics.Reversals.WithLabelValues(string(actor), outcome).Inc()
		return nil, fmt.Errorf("failed to reverse transaction %d: %w", txnID, err)
	}

	metrics.Reversals.WithLabelValues(string(actor), outcome).Inc()
	r.logger.Info("transaction reversed",
		slog.Int64("transaction_id", txnID),
		slog.Int64("customer_id", reversed.CustomerID),
		slog.String("actor", string(actor)))
	return reversed, nil
}

// restockLines returns each line's quantity to its item. Lines whose item has
// been deleted are skipped.
func restockLines(ctx context.Context, items store.ItemStore, txn *domain.Transaction, now time.Time) error {
	quantities := make(map[int64]int)
	for _, line := range txn.Lines {
		if line.ItemID != nil {
			quantities[*line.ItemID] += line.Quantity
		}
	}
	if len(quantities) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked, err := items.LockByIDs(ctx, ids)
	if err != nil {
		return err
	}

	txnID := txn.ID
	for _, item := range locked {
		qty := quantities[item.ID]
		if err := item.Restock(qty); err != nil {
			return err
		}
		item.UpdatedAt = now.UTC()
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		movement := domain.NewStockMovement(item.ID, &txnID, domain.MovementReversal, qty, now)
		if err := items.AddMovement(ctx, &movement); err != nil {
			return err
		}
	}
	return nil
}

func isExpectedReversalError(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, domain.ErrAlreadyReversed) ||
		errors.Is(err, domain.ErrReversalWindowClosed)
}
