package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
)

const reviewSelect = `
	SELECT id, customer_id, item_id, rating, comment, created_at, updated_at
	FROM reviews
`

// PostgresReviewStore implements store.ReviewStore.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a review store over db.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

var _ store.ReviewStore = (*PostgresReviewStore)(nil)

func scanReview(row rowScanner) (*domain.Review, error) {
	var r domain.Review
	err := row.Scan(&r.ID, &r.CustomerID, &r.ItemID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create implements store.ReviewStore.Create.
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reviews (customer_id, item_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		review.CustomerID,
		review.ItemID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID)
	if err != nil {
		mapped := MapError(err)
		switch {
		case errors.Is(mapped, store.ErrReviewExists):
			log.Debug("review already exists",
				slog.Int64("customer_id", review.CustomerID),
				slog.Int64("item_id", review.ItemID))
		case IsForeignKeyViolation(err):
			return store.ErrItemNotFound
		default:
			log.Error("failed to create review", slog.String("error", redact.Error(err)))
		}
		return mapped
	}

	log.Info("review created",
		slog.Int64("review_id", review.ID),
		slog.Int64("item_id", review.ItemID),
		slog.Int("rating", review.Rating))
	return nil
}

// GetByID implements store.ReviewStore.GetByID.
func (s *PostgresReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := scanReview(s.db.QueryRowContext(ctx, reviewSelect+"WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get review",
			slog.Int64("review_id", id),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	return review, nil
}

// Update implements store.ReviewStore.Update.
func (s *PostgresReviewStore) Update(ctx context.Context, review *domain.Review) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET rating = $1, comment = $2, updated_at = $3 WHERE id = $4
	`, review.Rating, review.Comment, review.UpdatedAt, review.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update review",
			slog.Int64("review_id", review.ID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrReviewNotFound)
}

// Delete implements store.ReviewStore.Delete.
func (s *PostgresReviewStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete review",
			slog.Int64("review_id", id),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrReviewNotFound)
}

func (s *PostgresReviewStore) list(ctx context.Context, where string, page store.Page, args ...any) ([]*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	n := len(args)
	query := reviewSelect + where + " ORDER BY created_at DESC, id DESC" +
		" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list reviews", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	reviews := []*domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			log.Error("failed to scan review row", slog.String("error", err.Error()))
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByCustomer implements store.ReviewStore.ListByCustomer.
func (s *PostgresReviewStore) ListByCustomer(ctx context.Context, customerID int64, page store.Page) ([]*domain.Review, error) {
	return s.list(ctx, "WHERE customer_id = $1", page, customerID)
}

// ListByItem implements store.ReviewStore.ListByItem.
func (s *PostgresReviewStore) ListByItem(ctx context.Context, itemID int64, page store.Page) ([]*domain.Review, error) {
	return s.list(ctx, "WHERE item_id = $1", page, itemID)
}

// List implements store.ReviewStore.List.
func (s *PostgresReviewStore) List(ctx context.Context, page store.Page) ([]*domain.Review, error) {
	return s.list(ctx, "", page)
}

// WithTx implements store.ReviewStore.WithTx.
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{db: tx, logger: s.logger}
}
