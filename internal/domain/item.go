package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Category groups items in the catalogue.
type Category string

// Categories lists every accepted item category.
var Categories = []Category{
	"food", "drinks", "clothes", "electronics", "accessories", "household", "pets", "mobiles",
	"furniture", "toys", "kids", "beauty", "books", "sports", "other",
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", NewValidationError("category", "is not a known category", nil)
}

// MaxItemNameLength bounds item names.
const MaxItemNameLength = 100

// Item is a stock-keeping unit in the catalogue.
type Item struct {
	ID           int64
	Name         string
	Category     Category
	PricePerUnit decimal.Decimal
	Currency     Currency
	Quantity     int
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewItem builds an item with its opening stock.
func NewItem(name string, category Category, price decimal.Decimal, currency Currency, quantity int, description string, now time.Time) (*Item, error) {
	now = now.UTC()
	item := &Item{
		Name:         strings.TrimSpace(name),
		Category:     category,
		PricePerUnit: price.Round(MoneyScale),
		Currency:     currency,
		Quantity:     quantity,
		Description:  strings.TrimSpace(description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if quantity < 1 {
		return nil, NewValidationError("quantity", "must be at least 1", nil)
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the catalogue fields of an item.
func (i *Item) Validate() error {
	if i.Name == "" || utf8.RuneCountInString(i.Name) > MaxItemNameLength {
		return NewValidationError("name", fmt.Sprintf("must be 1-%d characters", MaxItemNameLength), nil)
	}
	if isAllDigits(i.Name) {
		return NewValidationError("name", "must not be purely numeric", nil)
	}
	if _, err := ParseCategory(string(i.Category)); err != nil {
		return err
	}
	if i.PricePerUnit.LessThan(MinUnitPrice) {
		return NewValidationError("price_per_unit", "must be at least 1", nil)
	}
	if !i.Currency.Valid() {
		return NewValidationError("currency", "must be LBP or USD", nil)
	}
	if i.Description == "" {
		return NewValidationError("description", "is required", nil)
	}
	if i.Quantity < 0 {
		return NewValidationError("quantity", "cannot be negative", nil)
	}
	return nil
}

// Restock adds quantity units to the stock.
func (i *Item) Restock(quantity int) error {
	if quantity < 1 {
		return NewValidationError("quantity", "must be at least 1", nil)
	}
	i.Quantity += quantity
	return nil
}

// Withdraw removes quantity units, failing with *InsufficientStockError when
// the stock cannot cover it.
func (i *Item) Withdraw(quantity int) error {
	if quantity < 1 {
		return NewValidationError("quantity", "must be at least 1", nil)
	}
	if i.Quantity < quantity {
		return &InsufficientStockError{
			ItemID:    i.ID,
			ItemName:  i.Name,
			Available: i.Quantity,
			Requested: quantity,
		}
	}
	i.Quantity -= quantity
	return nil
}

// ItemUpdate carries a partial catalogue change. Quantity only changes through Restock.
type ItemUpdate struct {
	Name         *string
	Category     *Category
	PricePerUnit *decimal.Decimal
	Currency     *Currency
	Description  *string
}

// Empty reports whether the update changes nothing.
func (u ItemUpdate) Empty() bool {
	return u.Name == nil && u.Category == nil && u.PricePerUnit == nil &&
		u.Currency == nil && u.Description == nil
}

// Apply writes the update onto item and validates the result.
func (u ItemUpdate) Apply(item *Item) error {
	if u.Empty() {
		return NewValidationError("item", "at least one field must be provided", nil)
	}

	next := *item
	if u.Name != nil {
		next.Name = strings.TrimSpace(*u.Name)
	}
	if u.Category != nil {
		next.Category = *u.Category
	}
	if u.PricePerUnit != nil {
		next.PricePerUnit = u.PricePerUnit.Round(MoneyScale)
	}
	if u.Currency != nil {
		next.Currency = *u.Currency
	}
	if u.Description != nil {
		next.Description = strings.TrimSpace(*u.Description)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*item = next
	return nil
}

// ItemRef identifies an item either by ID or by name, never both.
type ItemRef struct {
	ID   int64
	Name string
}

// ByID reports whether the reference is an ID.
func (r ItemRef) ByID() bool {
	return r.ID > 0
}

func (r ItemRef) String() string {
	if r.ByID() {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.Name
}

// ParseItemRef treats an all-digit string as an ID and anything else as a name.
func ParseItemRef(s string) (ItemRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ItemRef{}, NewValidationError("item", "identifier is required", nil)
	}
	if isAllDigits(s) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return ItemRef{}, NewValidationError("item", "has an invalid id", ErrInvalidID)
		}
		return ItemRef{ID: id}, nil
	}
	return ItemRef{Name: s}, nil
}

// ParseItemRefs parses a list of identifiers that must be either all IDs or all names.
func ParseItemRefs(values []string) ([]ItemRef, error) {
	refs := make([]ItemRef, 0, len(values))
	for _, v := range values {
		ref, err := ParseItemRef(v)
		if err != nil {
			return nil, err
		}
		if len(refs) > 0 && refs[0].ByID() != ref.ByID() {
			return nil, NewValidationError("item_ids_or_names", "must be all ids or all names", nil)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
