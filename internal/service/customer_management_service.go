package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
)

// CustomerManagementService is the admin's view of customers.
type CustomerManagementService interface {
	TopUp(ctx context.Context, customerID int64, amount decimal.Decimal, currency domain.Currency) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, update domain.ProfileUpdate) (*domain.Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
	ListCustomerTransactions(ctx context.Context, customerID int64, page store.Page) ([]*domain.Transaction, error)

	// SetStatus bans or unbans a customer. Setting the current status again
	// is a no-op that still returns the customer.
	SetStatus(ctx context.Context, customerID int64, status domain.CustomerStatus) (*domain.Customer, error)

	ListCustomers(ctx context.Context, filter store.CustomerFilter) ([]*domain.Customer, error)

	// ReverseTransaction undoes any customer's purchase. Ownership is not
	// checked but the status and window checks still apply.
	ReverseTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)
}

type customerManagementService struct {
	db           *sql.DB
	customers    store.CustomerStore
	transactions store.TransactionStore
	guard        SessionGuard
	reverser     *reverser
	logger       *slog.Logger
	opts         options
}

// NewCustomerManagementService creates a CustomerManagementService.
func NewCustomerManagementService(
	db *sql.DB,
	customers store.CustomerStore,
	items store.ItemStore,
	transactions store.TransactionStore,
	guard SessionGuard,
	window time.Duration,
	logger *slog.Logger,
	opts ...Option,
) CustomerManagementService {
	if logger == nil {
		logger = slog.Default()
	}
	if window <= 0 {
		window = domain.DefaultReversalWindow
	}
	o := buildOptions(opts)
	logger = logger.With(slog.String("component", "customer_management_service"))
	return &customerManagementService{
		db:           db,
		customers:    customers,
		transactions: transactions,
		guard:        guard,
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

func (s *customerManagementService) TopUp(
	ctx context.Context,
	customerID int64,
	amount decimal.Decimal,
	currency domain.Currency,
) (*domain.Customer, error) {
	var updated *domain.Customer
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		customers := s.customers.WithTx(tx)

		customer, err := customers.GetByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if err := customer.TopUp(currency, amount); err != nil {
			return err
		}
		customer.UpdatedAt = s.opts.now().UTC()
		if err := customers.Update(ctx, customer); err != nil {
			return err
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to top up customer %d: %w", customerID, err)
	}

	s.logger.Info("customer topped up",
		slog.Int64("customer_id", customerID),
		slog.String("currency", string(currency)),
		slog.String("amount", amount.StringFixed(domain.MoneyScale)))
	return updated, nil
}

func (s *customerManagementService) UpdateCustomer(
	ctx context.Context,
	customerID int64,
	update domain.ProfileUpdate,
) (*domain.Customer, error) {
	return updateCustomerProfile(ctx, s.db, s.customers, customerID, update, s.opts.now())
}

func (s *customerManagementService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (s *customerManagementService) ListCustomerTransactions(
	ctx context.Context,
	customerID int64,
	page store.Page,
) ([]*domain.Transaction, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	txns, err := s.transactions.ListByCustomer(ctx, customerID, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *customerManagementService) SetStatus(
	ctx context.Context,
	customerID int64,
	status domain.CustomerStatus,
) (*domain.Customer, error) {
	if _, err := domain.ParseCustomerStatus(string(status)); err != nil {
		return nil, err
	}

	var (
		result  *domain.Customer
		changed bool
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		customers := s.customers.WithTx(tx)

		customer, err := customers.GetByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		result = customer
		if changed = customer.SetStatus(status); !changed {
			return nil
		}
		customer.UpdatedAt = s.opts.now().UTC()
		return customers.Update(ctx, customer)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set customer status: %w", err)
	}

	if changed {
		s.guard.Refresh(ctx, domain.RoleCustomer, customerID)
		s.logger.Info("customer status changed",
			slog.Int64("customer_id", customerID),
			slog.String("status", string(status)))
	}
	return result, nil
}

func (s *customerManagementService) ListCustomers(
	ctx context.Context,
	filter store.CustomerFilter,
) ([]*domain.Customer, error) {
	filter.Page = filter.Page.Normalize()
	customers, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *customerManagementService) ReverseTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	return s.reverser.reverse(ctx, domain.RoleAdmin, 0, transactionID)
}
