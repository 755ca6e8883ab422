package api

import (
	"strings"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/shopspring/decimal"
)

// Accounts

// RegisterRequest is the sign-up payload shared by customers and admins.
// Phone accepts 8 bare digits or the +961-XX-XXX-XXX form.
type RegisterRequest struct {
	FirstName     string `json:"first_name"     validate:"required,max=100"`
	LastName      string `json:"last_name"      validate:"required,max=100"`
	Username      string `json:"username"       validate:"required,min=3,max=50"`
	Email         string `json:"email"          validate:"required,email"`
	Password      string `json:"password"       validate:"required,min=8,max=72"`
	Phone         string `json:"phone"          validate:"required"`
	Age           int    `json:"age"            validate:"required,gte=18,lte=150"`
	Gender        string `json:"gender"         validate:"required,oneof=male female other"`
	MaritalStatus string `json:"marital_status" validate:"required,oneof=single married divorced widowed"`
}

func (req RegisterRequest) toInput() service.RegisterInput {
	return service.RegisterInput{
		Profile: domain.Profile{
			Username:      req.Username,
			Email:         req.Email,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Phone:         req.Phone,
			Age:           req.Age,
			Gender:        domain.Gender(req.Gender),
			MaritalStatus: domain.MaritalStatus(req.MaritalStatus),
		},
		Password: req.Password,
	}
}

// LoginRequest takes an id, email, phone or username plus the password.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoints.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	AccountID    int64  `json:"account_id,omitempty"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresAt is the RFC 3339 time the access token expires.
	ExpiresAt string `json:"expires_at"`
}

func newAuthResponse(accountID int64, role domain.Role, pair *auth.TokenPair) AuthResponse {
	return AuthResponse{
		AccountID:    accountID,
		Role:         string(role),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// ProfileUpdateRequest is a partial profile change. Username and email are
// fixed after registration.
type ProfileUpdateRequest struct {
	FirstName     *string `json:"first_name,omitempty"     validate:"omitempty,min=1,max=100"`
	LastName      *string `json:"last_name,omitempty"      validate:"omitempty,min=1,max=100"`
	Phone         *string `json:"phone,omitempty"`
	Age           *int    `json:"age,omitempty"            validate:"omitempty,gte=18,lte=150"`
	Gender        *string `json:"gender,omitempty"         validate:"omitempty,oneof=male female other"`
	MaritalStatus *string `json:"marital_status,omitempty" validate:"omitempty,oneof=single married divorced widowed"`
}

// Validate requires at least one field.
func (req ProfileUpdateRequest) Validate() error {
	if req.toUpdate().Empty() {
		return domain.NewValidationError("profile", "at least one field must be provided", nil)
	}
	return nil
}

func (req ProfileUpdateRequest) toUpdate() domain.ProfileUpdate {
	update := domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Age:       req.Age,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		update.Gender = &g
	}
	if req.MaritalStatus != nil {
		m := domain.MaritalStatus(*req.MaritalStatus)
		update.MaritalStatus = &m
	}
	return update
}

// ProfileResponse is the public view of a profile.
type ProfileResponse struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
}

func profileToResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		Username:      p.Username,
		Email:         p.Email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		Age:           p.Age,
		Gender:        string(p.Gender),
		MaritalStatus: string(p.MaritalStatus),
	}
}

// AmountsResponse renders per-currency money as fixed two-decimal strings.
type AmountsResponse struct {
	LBP string `json:"LBP"`
	USD string `json:"USD"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyScale)
}

func amountsToResponse(a domain.Amounts) AmountsResponse {
	return AmountsResponse{LBP: money(a.LBP), USD: money(a.USD)}
}

// CustomerResponse is the view of a customer account.
type CustomerResponse struct {
	ID int64 `json:"id"`
	ProfileResponse
	Balances  AmountsResponse `json:"balances"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func customerToResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		ProfileResponse: profileToResponse(c.Profile),
		Balances:        amountsToResponse(c.Balances),
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt.UTC(),
		UpdatedAt:       c.UpdatedAt.UTC(),
	}
}

// CustomerListResponse wraps a page of customers.
type CustomerListResponse struct {
	Customers []CustomerResponse `json:"customers"`
}

// AdminResponse is the view of an admin account.
type AdminResponse struct {
	ID int64 `json:"id"`
	ProfileResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func adminToResponse(a *domain.Admin) AdminResponse {
	return AdminResponse{
		ID:              a.ID,
		ProfileResponse: profileToResponse(a.Profile),
		CreatedAt:       a.CreatedAt.UTC(),
		UpdatedAt:       a.UpdatedAt.UTC(),
	}
}

// TopUpRequest credits a customer. Amount accepts a JSON string or number.
type TopUpRequest struct {
	Amount   *decimal.Decimal `json:"amount"   validate:"required"`
	Currency string           `json:"currency" validate:"required"`
}

// Inventory

// ItemRequest adds an item to the catalogue.
type ItemRequest struct {
	Name         string           `json:"name"           validate:"required,max=100"`
	Category     string           `json:"category"       validate:"required"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit" validate:"required"`
	Currency     string           `json:"currency"       validate:"required"`
	Quantity     int              `json:"quantity"       validate:"required,gte=1"`
	Description  string           `json:"description"    validate:"required,max=1000"`
}

func (req ItemRequest) toInput() (service.NewItemInput, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return service.NewItemInput{}, err
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return service.NewItemInput{}, err
	}
	return service.NewItemInput{
		Name:         req.Name,
		Category:     category,
		PricePerUnit: *req.PricePerUnit,
		Currency:     currency,
		Quantity:     req.Quantity,
		Description:  req.Description,
	}, nil
}

// ItemUpdateRequest is a partial catalogue change. Stock only moves through restock.
type ItemUpdateRequest struct {
	Name         *string          `json:"name,omitempty"           validate:"omitempty,min=1,max=100"`
	Category     *string          `json:"category,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
	Currency     *string          `json:"currency,omitempty"`
	Description  *string          `json:"description,omitempty"    validate:"omitempty,min=1,max=1000"`
}

func (req ItemUpdateRequest) toUpdate() (domain.ItemUpdate, error) {
	update := domain.ItemUpdate{
		Name:         req.Name,
		PricePerUnit: req.PricePerUnit,
		Description:  req.Description,
	}
	if req.Category != nil {
		c, err := domain.ParseCategory(*req.Category)
		if err != nil {
			return domain.ItemUpdate{}, err
		}
		update.Category = &c
	}
	if req.Currency != nil {
		c, err := domain.ParseCurrency(*req.Currency)
		if err != nil {
			return domain.ItemUpdate{}, err
		}
		update.Currency = &c
	}
	return update, nil
}

// RestockRequest adds units to an item.
type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// ItemResponse is the view of a catalogue item.
type ItemResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	PricePerUnit string    `json:"price_per_unit"`
	Currency     string    `json:"currency"`
	Quantity     int       `json:"quantity"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func itemToResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Category:     string(item.Category),
		PricePerUnit: money(item.PricePerUnit),
		Currency:     string(item.Currency),
		Quantity:     item.Quantity,
		Description:  item.Description,
		CreatedAt:    item.CreatedAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

// ItemListResponse wraps a page of items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

func itemsToResponse(items []*domain.Item) ItemListResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemToResponse(item))
	}
	return ItemListResponse{Items: out}
}

// MovementResponse is one stock ledger row.
type MovementResponse struct {
	ID            int64     `json:"id"`
	ItemID        int64     `json:"item_id"`
	TransactionID *int64    `json:"transaction_id"`
	Kind          string    `json:"kind"`
	Delta         int       `json:"delta"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse wraps a page of stock movements.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
}

func movementsToResponse(movements []*domain.StockMovement) MovementListResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, MovementResponse{
			ID:            m.ID,
			ItemID:        m.ItemID,
			TransactionID: m.TransactionID,
			Kind:          string(m.Kind),
			Delta:         m.Delta,
			CreatedAt:     m.CreatedAt.UTC(),
		})
	}
	return MovementListResponse{Movements: out}
}

// Sales

// PurchaseRequest lists items as all ids or all names, with one quantity each.
type PurchaseRequest struct {
	ItemIDsOrNames []string `json:"item_ids_or_names" validate:"required"`
	ItemQuantities []int    `json:"item_quantities"   validate:"required"`
}

// TransactionLineResponse is one purchased item as it was at sale time.
type TransactionLineResponse struct {
	ItemID    *int64 `json:"item_id"`
	ItemName  string `json:"item_name"`
	Category  string `json:"category"`
	UnitPrice string `json:"unit_price"`
	Currency  string `json:"currency"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// TransactionResponse is the view of a purchase.
type TransactionResponse struct {
	ID         int64                     `json:"id"`
	CustomerID int64                     `json:"customer_id"`
	Lines      []TransactionLineResponse `json:"lines"`
	Totals     AmountsResponse           `json:"totals"`
	Status     string                    `json:"status"`
	CreatedAt  time.Time                 `json:"created_at"`
	ReversedAt *time.Time                `json:"reversed_at"`
}

func transactionToResponse(txn *domain.Transaction) TransactionResponse {
	lines := make([]TransactionLineResponse, 0, len(txn.Lines))
	for _, l := range txn.Lines {
		lines = append(lines, TransactionLineResponse{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			Category:  string(l.Category),
			UnitPrice: money(l.UnitPrice),
			Currency:  string(l.Currency),
			Quantity:  l.Quantity,
			LineTotal: money(l.Total()),
		})
	}
	var reversedAt *time.Time
	if txn.ReversedAt != nil {
		t := txn.ReversedAt.UTC()
		reversedAt = &t
	}
	return TransactionResponse{
		ID:         txn.ID,
		CustomerID: txn.CustomerID,
		Lines:      lines,
		Totals:     amountsToResponse(txn.Totals),
		Status:     string(txn.Status),
		CreatedAt:  txn.CreatedAt.UTC(),
		ReversedAt: reversedAt,
	}
}

// TransactionListResponse wraps a page of transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

func transactionsToResponse(txns []*domain.Transaction) TransactionListResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, transactionToResponse(txn))
	}
	return TransactionListResponse{Transactions: out}
}

// Reviews

// ReviewRequest names the item by exactly one of item_id or item_name.
type ReviewRequest struct {
	ItemID   *int64  `json:"item_id,omitempty"   validate:"omitempty,gte=1"`
	ItemName *string `json:"item_name,omitempty"`
	Rating   int     `json:"rating"              validate:"required,gte=1,lte=5"`
	Comment  string  `json:"comment"             validate:"required,max=1000"`
}

// Validate enforces the item_id xor item_name rule.
func (req ReviewRequest) Validate() error {
	hasName := req.ItemName != nil && strings.TrimSpace(*req.ItemName) != ""
	if (req.ItemID != nil) == hasName {
		return domain.NewValidationError("item", "exactly one of item_id or item_name is required", nil)
	}
	return nil
}

func (req ReviewRequest) itemRef() domain.ItemRef {
	if req.ItemID != nil {
		return domain.ItemRef{ID: *req.ItemID}
	}
	return domain.ItemRef{Name: strings.TrimSpace(*req.ItemName)}
}

// ReviewUpdateRequest is a partial review change.
type ReviewUpdateRequest struct {
	Rating  *int    `json:"rating,omitempty"  validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// Validate requires at least one field.
func (req ReviewUpdateRequest) Validate() error {
	if req.Rating == nil && req.Comment == nil {
		return domain.NewValidationError("review", "at least one field must be provided", nil)
	}
	return nil
}

func (req ReviewUpdateRequest) toUpdate() domain.ReviewUpdate {
	return domain.ReviewUpdate{Rating: req.Rating, Comment: req.Comment}
}

// ReviewResponse is the view of a review.
type ReviewResponse struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	ItemID     int64     `json:"item_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func reviewToResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		ItemID:     r.ItemID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

// ReviewListResponse wraps a page of reviews.
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}

func reviewsToResponse(reviews []*domain.Review) ReviewListResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewToResponse(r))
	}
	return ReviewListResponse{Reviews: out}
}
