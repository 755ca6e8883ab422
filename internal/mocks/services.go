package mocks

import (
	"context"
	"errors"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
)

// ErrNotConfigured is returned by service mocks whose function field is unset.
var ErrNotConfigured = errors.New("mock method not configured")

// MockCustomerAccountService implements service.CustomerAccountService.
type MockCustomerAccountService struct {
	RegisterFn      func(ctx context.Context, in service.RegisterInput) (*domain.Customer, *auth.TokenPair, error)
	LoginFn         func(ctx context.Context, identifier, password string) (*domain.Customer, *auth.TokenPair, error)
	RefreshFn       func(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	LogoutFn        func(ctx context.Context, customerID int64) error
	GetFn           func(ctx context.Context, customerID int64) (*domain.Customer, error)
	UpdateProfileFn func(ctx context.Context, customerID int64, update domain.ProfileUpdate) (*domain.Customer, error)
}

var _ service.CustomerAccountService = (*MockCustomerAccountService)(nil)

func (m *MockCustomerAccountService) Register(ctx context.Context, in service.RegisterInput) (*domain.Customer, *auth.TokenPair, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, in)
	}
	return nil, nil, ErrNotConfigured
}

func (m *MockCustomerAccountService) Login(ctx context.Context, identifier, password string) (*domain.Customer, *auth.TokenPair, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, identifier, password)
	}
	return nil, nil, ErrNotConfigured
}

func (m *MockCustomerAccountService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if m.RefreshFn != nil {
		return m.RefreshFn(ctx, refreshToken)
	}
	return nil, ErrNotConfigured
}

func (m *MockCustomerAccountService) Logout(ctx context.Context, customerID int64) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, customerID)
	}
	return nil
}

func (m *MockCustomerAccountService) Get(ctx context.Context, customerID int64) (*domain.Customer, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, customerID)
	}
	return nil, ErrNotConfigured
}

func (m *MockCustomerAccountService) UpdateProfile(
	ctx context.Context,
	customerID int64,
	update domain.ProfileUpdate,
) (*domain.Customer, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, customerID, update)
	}
	return nil, ErrNotConfigured
}

// MockAdminAccountService implements service.AdminAccountService.
type MockAdminAccountService struct {
	RegisterFn      func(ctx context.Context, in service.RegisterInput) (*domain.Admin, *auth.TokenPair, error)
	LoginFn         func(ctx context.Context, identifier, password string) (*domain.Admin, *auth.TokenPair, error)
	RefreshFn       func(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	LogoutFn        func(ctx context.Context, adminID int64) error
	GetFn           func(ctx context.Context, adminID int64) (*domain.Admin, error)
	UpdateProfileFn func(ctx context.Context, adminID int64, update domain.ProfileUpdate) (*domain.Admin, error)
}

var _ service.AdminAccountService = (*MockAdminAccountService)(nil)

func (m *MockAdminAccountService) Register(ctx context.Context, in service.RegisterInput) (*domain.Admin, *auth.TokenPair, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, in)
	}
	return nil, nil, ErrNotConfigured
}

func (m *MockAdminAccountService) Login(ctx context.Context, identifier, password string) (*domain.Admin, *auth.TokenPair, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, identifier, password)
	}
	return nil, nil, ErrNotConfigured
}

func (m *MockAdminAccountService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if m.RefreshFn != nil {
		return m.RefreshFn(ctx, refreshToken)
	}
	return nil, ErrNotConfigured
}

func (m *MockAdminAccountService) Logout(ctx context.Context, adminID int64) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, adminID)
	}
	return nil
}

func (m *MockAdminAccountService) Get(ctx context.Context, adminID int64) (*domain.Admin, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, adminID)
	}
	return nil, ErrNotConfigured
}

func (m *MockAdminAccountService) UpdateProfile(ctx context.Context, adminID int64, update domain.ProfileUpdate) (*domain.Admin, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, adminID, update)
	}
	return nil, ErrNotConfigured
}

// MockCustomerManagementService implements service.CustomerManagementService.
type MockCustomerManagementService struct {
	TopUpFn                    func(ctx context.Context, customerID int64, amount decimal.Decimal, currency domain.Currency) (*domain.Customer, error)
	UpdateCustomerFn           func(ctx context.Context, customerID int64, update domain.ProfileUpdate) (*domain.Customer, error)
	GetCustomerFn              func(ctx context.Context, customerID int64) (*domain.Customer, error)
	ListCustomerTransactionsFn func(ctx context.Context, customerID int64, page store.Page) ([]*domain.Transaction, error)
	SetStatusFn                func(ctx context.Context, customerID int64, status domain.CustomerStatus) (*domain.Customer, error)
	ListCustomersFn            func(ctx context.Context, filter store.CustomerFilter) ([]*domain.Customer, error)
	ReverseTransactionFn       func(ctx context.Context, transactionID int64) (*domain.Transaction, error)
}

var _ service.CustomerManagementService = (*MockCustomerManagementService)(nil)

func (m *MockCustomerManagementService) TopUp(
	ctx context.Context,
	customerID int64,
	amount decimal.Decimal,
	currency domain.Currency,
) (*domain.Customer, error) {
	if m.TopUpFn != nil {
		return m.TopUpFn(ctx, customerID, amount, currency)
	}
	return nil, ErrNotConfigured
}

func (m *MockCustomerManagementService) UpdateCustomer(
	ctx context.Context,
	customerID int64,
	update domain.ProfileUpdate,
) (*domain.Customer, error) {
	if m.UpdateCustomerFn != nil {
		return m.UpdateCustomerFn(ctx, customerID, update)
	}
	return nil, ErrNotConfigured
}

func (m *MockCustomerManagementService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	if m.GetCustomerFn != nil {
		return m.GetCustomerFn(ctx, customerID)
	}
	return nil, ErrNotConfigured
}

func (m *MockCustomerManagementService) ListCustomerTransactions(
	ctx context.Context,
	customerID int64,
	page store.Page,
) ([]*domain.Transaction, error) {
	if m.ListCustomerTransactionsFn != nil {
		return m.ListCustomerTransactionsFn(ctx, customerID, page)
	}
	return []*domain.Transaction{}, nil
}

func (m *MockCustomerManagementService) SetStatus(
	ctx context.Context,
	customerID int64,
	status domain.CustomerStatus,
) (*domain.Customer, error) {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, customerID, status)
	}
	return nil, ErrNotConfigured
}

func (m *MockCustomerManagementService) ListCustomers(
	ctx context.Context,
	filter store.CustomerFilter,
) ([]*domain.Customer, error) {
	if m.ListCustomersFn != nil {
		return m.ListCustomersFn(ctx, filter)
	}
	return []*domain.Customer{}, nil
}

func (m *MockCustomerManagementService) ReverseTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	if m.ReverseTransactionFn != nil {
		return m.ReverseTransactionFn(ctx, transactionID)
	}
	return nil, ErrNotConfigured
}

// MockInventoryService implements service.InventoryService.
type MockInventoryService struct {
	AddItemFn       func(ctx context.Context, in service.NewItemInput) (*domain.Item, error)
	RestockFn       func(ctx context.Context, ref domain.ItemRef, quantity int) (*domain.Item, error)
	UpdateItemFn    func(ctx context.Context, ref domain.ItemRef, update domain.ItemUpdate) (*domain.Item, error)
	DeleteItemFn    func(ctx context.Context, ref domain.ItemRef) error
	GetItemFn       func(ctx context.Context, ref domain.ItemRef) (*domain.Item, error)
	ListItemsFn     func(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error)
	ListMovementsFn func(ctx context.Context, ref domain.ItemRef, page store.Page) ([]*domain.StockMovement, error)
	SweepLowStockFn func(ctx context.Context, threshold int) ([]*domain.Item, error)
}

var _ service.InventoryService = (*MockInventoryService)(nil)

func (m *MockInventoryService) AddItem(ctx context.Context, in service.NewItemInput) (*domain.Item, error) {
	if m.AddItemFn != nil {
		return m.AddItemFn(ctx, in)
	}
	return nil, ErrNotConfigured
}

func (m *MockInventoryService) Restock(ctx context.Context, ref domain.ItemRef, quantity int) (*domain.Item, error) {
	if m.RestockFn != nil {
		return m.RestockFn(ctx, ref, quantity)
	}
	return nil, ErrNotConfigured
}

func (m *MockInventoryService) UpdateItem(ctx context.Context, ref domain.ItemRef, update domain.ItemUpdate) (*domain.Item, error) {
	if m.UpdateItemFn != nil {
		return m.UpdateItemFn(ctx, ref, update)
	}
	return nil, ErrNotConfigured
}

func (m *MockInventoryService) DeleteItem(ctx context.Context, ref domain.ItemRef) error {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, ref)
	}
	return nil
}

func (m *MockInventoryService) GetItem(ctx context.Context, ref domain.ItemRef) (*domain.Item, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, ref)
	}
	return nil, ErrNotConfigured
}

func (m *MockInventoryService) ListItems(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, filter)
	}
	return []*domain.Item{}, nil
}

func (m *MockInventoryService) ListMovements(
	ctx context.Context,
	ref domain.ItemRef,
	page store.Page,
) ([]*domain.StockMovement, error) {
	if m.ListMovementsFn != nil {
		return m.ListMovementsFn(ctx, ref, page)
	}
	return []*domain.StockMovement{}, nil
}

func (m *MockInventoryService) SweepLowStock(ctx context.Context, threshold int) ([]*domain.Item, error) {
	if m.SweepLowStockFn != nil {
		return m.SweepLowStockFn(ctx, threshold)
	}
	return []*domain.Item{}, nil
}

// MockReviewService implements service.ReviewService.
type MockReviewService struct {
	AddReviewFn      func(ctx context.Context, customerID int64, ref domain.ItemRef, rating int, comment string) (*domain.Review, error)
	UpdateReviewFn   func(ctx context.Context, customerID, reviewID int64, update domain.ReviewUpdate) (*domain.Review, error)
	DeleteReviewFn   func(ctx context.Context, customerID, reviewID int64) error
	ListByCustomerFn func(ctx context.Context, who service.ReviewerSelector, page store.Page) ([]*domain.Review, error)
	ListByItemFn     func(ctx context.Context, ref domain.ItemRef, page store.Page) ([]*domain.Review, error)
	ListAllFn        func(ctx context.Context, page store.Page) ([]*domain.Review, error)
}

var _ service.ReviewService = (*MockReviewService)(nil)

func (m *MockReviewService) AddReview(
	ctx context.Context,
	customerID int64,
	ref domain.ItemRef,
	rating int,
	comment string,
) (*domain.Review, error) {
	if m.AddReviewFn != nil {
		return m.AddReviewFn(ctx, customerID, ref, rating, comment)
	}
	return nil, ErrNotConfigured
}

func (m *MockReviewService) UpdateReview(
	ctx context.Context,
	customerID, reviewID int64,
	update domain.ReviewUpdate,
) (*domain.Review, error) {
	if m.UpdateReviewFn != nil {
		return m.UpdateReviewFn(ctx, customerID, reviewID, update)
	}
	return nil, ErrNotConfigured
}

func (m *MockReviewService) DeleteReview(ctx context.Context, customerID, reviewID int64) error {
	if m.DeleteReviewFn != nil {
		return m.DeleteReviewFn(ctx, customerID, reviewID)
	}
	return nil
}

func (m *MockReviewService) ListByCustomer(
	ctx context.Context,
	who service.ReviewerSelector,
	page store.Page,
) ([]*domain.Review, error) {
	if m.ListByCustomerFn != nil {
		return m.ListByCustomerFn(ctx, who, page)
	}
	return []*domain.Review{}, nil
}

func (m *MockReviewService) ListByItem(ctx context.Context, ref domain.ItemRef, page store.Page) ([]*domain.Review, error) {
	if m.ListByItemFn != nil {
		return m.ListByItemFn(ctx, ref, page)
	}
	return []*domain.Review{}, nil
}

func (m *MockReviewService) ListAll(ctx context.Context, page store.Page) ([]*domain.Review, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx, page)
	}
	return []*domain.Review{}, nil
}

// MockSalesService implements service.SalesService.
type MockSalesService struct {
	PurchaseFn         func(ctx context.Context, customerID int64, identifiers []string, quantities []int) (*domain.Transaction, error)
	ReverseFn          func(ctx context.Context, customerID, transactionID int64) (*domain.Transaction, error)
	ListTransactionsFn func(ctx context.Context, customerID int64, page store.Page) ([]*domain.Transaction, error)
	GetItemFn          func(ctx context.Context, ref domain.ItemRef) (*domain.Item, error)
	ListItemsFn        func(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error)
}

var _ service.SalesService = (*MockSalesService)(nil)

func (m *MockSalesService) Purchase(
	ctx context.Context,
	customerID int64,
	identifiers []string,
	quantities []int,
) (*domain.Transaction, error) {
	if m.PurchaseFn != nil {
		return m.PurchaseFn(ctx, customerID, identifiers, quantities)
	}
	return nil, ErrNotConfigured
}

func (m *MockSalesService) Reverse(ctx context.Context, customerID, transactionID int64) (*domain.Transaction, error) {
	if m.ReverseFn != nil {
		return m.ReverseFn(ctx, customerID, transactionID)
	}
	return nil, ErrNotConfigured
}

func (m *MockSalesService) ListTransactions(ctx context.Context, customerID int64, page store.Page) ([]*domain.Transaction, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, customerID, page)
	}
	return []*domain.Transaction{}, nil
}

func (m *MockSalesService) GetItem(ctx context.Context, ref domain.ItemRef) (*domain.Item, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, ref)
	}
	return nil, ErrNotConfigured
}

func (m *MockSalesService) ListItems(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, filter)
	}
	return []*domain.Item{}, nil
}
