package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// ReviewerSelector names a customer by exactly one of username or email.
type ReviewerSelector struct {
	Username string
	Email    string
}

// ReviewService manages customer reviews of purchased items.
type ReviewService interface {
	// AddReview requires the item to appear in one of the customer's
	// completed transactions and allows one review per item.
	AddReview(ctx context.Context, customerID int64, ref domain.ItemRef, rating int, comment string) (*domain.Review, error)
	UpdateReview(ctx context.Context, customerID, reviewID int64, update domain.ReviewUpdate) (*domain.Review, error)
	DeleteReview(ctx context.Context, customerID, reviewID int64) error
	ListByCustomer(ctx context.Context, who ReviewerSelector, page store.Page) ([]*domain.Review, error)
	ListByItem(ctx context.Context, ref domain.ItemRef, page store.Page) ([]*domain.Review, error)
	ListAll(ctx context.Context, page store.Page) ([]*domain.Review, error)
}

type reviewService struct {
	db           *sql.DB
	reviews      store.ReviewStore
	customers    store.CustomerStore
	items        store.ItemStore
	transactions store.TransactionStore
	logger       *slog.Logger
	opts         options
}

// NewReviewService creates a ReviewService.
func NewReviewService(
	db *sql.DB,
	reviews store.ReviewStore,
	customers store.CustomerStore,
	items store.ItemStore,
	transactions store.TransactionStore,
	logger *slog.Logger,
	opts ...Option,
) ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reviewService{
		db:           db,
		reviews:      reviews,
		customers:    customers,
		items:        items,
		transactions: transactions,
		logger:       logger.With(slog.String("component", "review_service")),
		opts:         buildOptions(opts),
	}
}

func (s *reviewService) AddReview(
	ctx context.Context,
	customerID int64,
	ref domain.ItemRef,
	rating int,
	comment string,
) (*domain.Review, error) {
	item, err := s.items.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	review, err := domain.NewReview(customerID, item.ID, rating, comment, s.opts.now())
	if err != nil {
		return nil, err
	}

	purchased, err := s.transactions.HasPurchased(ctx, customerID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check purchase history: %w", err)
	}
	if !purchased {
		return nil, ErrItemNotPurchased
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	s.logger.Info("review added",
		slog.Int64("review_id", review.ID),
		slog.Int64("customer_id", customerID),
		slog.Int64("item_id", item.ID))
	return review, nil
}

func (s *reviewService) UpdateReview(
	ctx context.Context,
	customerID, reviewID int64,
	update domain.ReviewUpdate,
) (*domain.Review, error) {
	var updated *domain.Review
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		reviews := s.reviews.WithTx(tx)

		review, err := reviews.GetByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.CustomerID != customerID {
			return ErrNotOwned
		}
		if err := update.Apply(review, s.opts.now()); err != nil {
			return err
		}
		if err := reviews.Update(ctx, review); err != nil {
			return err
		}
		updated = review
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return updated, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, customerID, reviewID int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		reviews := s.reviews.WithTx(tx)

		review, err := reviews.GetByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.CustomerID != customerID {
			return ErrNotOwned
		}
		return reviews.Delete(ctx, reviewID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	s.logger.Info("review deleted",
		slog.Int64("review_id", reviewID),
		slog.Int64("customer_id", customerID))
	return nil
}

func (s *reviewService) ListByCustomer(ctx context.Context, who ReviewerSelector, page store.Page) ([]*domain.Review, error) {
	username := strings.TrimSpace(who.Username)
	email := strings.TrimSpace(who.Email)
	if (username == "") == (email == "") {
		return nil, domain.NewValidationError("customer", "exactly one of username or email is required", nil)
	}

	var (
		customer *domain.Customer
		err      error
	)
	if username != "" {
		customer, err = s.customers.GetByUsername(ctx, username)
	} else {
		customer, err = s.customers.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	reviews, err := s.reviews.ListByCustomer(ctx, customer.ID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) ListByItem(ctx context.Context, ref domain.ItemRef, page store.Page) ([]*domain.Review, error) {
	item, err := s.items.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	reviews, err := s.reviews.ListByItem(ctx, item.ID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) ListAll(ctx context.Context, page store.Page) ([]*domain.Review, error) {
	reviews, err := s.reviews.List(ctx, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
