package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/storefront-api/internal/api"
	"github.com/shopspring/decimal"
)

// identity keeps usernames, emails and phones unique across runs.
type identity struct {
	suffix string
	phone  int64
}

func newIdentity(now time.Time) identity {
	n := now.UnixNano()
	return identity{suffix: strconv.FormatInt(n%1_000_000_000, 36), phone: n % 100_000_000}
}

func (id identity) register(role string, offset int64) api.RegisterRequest {
	username := role + "_" + id.suffix
	return api.RegisterRequest{
		FirstName:     "Smoke",
		LastName:      role,
		Username:      username,
		Email:         username + "@smoke.example.com",
		Password:      "smoke-password-1",
		Phone:         fmt.Sprintf("%08d", (id.phone+offset)%100_000_000),
		Age:           30,
		Gender:        "other",
		MaritalStatus: "single",
	}
}

func (id identity) itemName() string {
	return "Smoke Rice " + id.suffix
}

func runScenario(ctx context.Context, c *client, id identity, log *slog.Logger) error {
	var customer, admin api.AuthResponse
	if err := c.call(ctx, c.customers, http.MethodPost, "/api/v1/customers/register", "", id.register("customer", 0), &customer, http.StatusCreated); err != nil {
		return fmt.Errorf("register customer: %w", err)
	}
	if err := c.call(ctx, c.admin, http.MethodPost, "/api/v1/admins/register", "", id.register("admin", 1), &admin, http.StatusCreated); err != nil {
		return fmt.Errorf("register admin: %w", err)
	}
	log.Info("accounts registered", slog.Int64("customer_id", customer.AccountID), slog.Int64("admin_id", admin.AccountID))

	price := decimal.RequireFromString("2.50")
	var item api.ItemResponse
	addItem := api.ItemRequest{
		Name:         id.itemName(),
		Category:     "food",
		PricePerUnit: &price,
		Currency:     "USD",
		Quantity:     10,
		Description:  "Long grain, smoke test batch",
	}
	if err := c.call(ctx, c.inventory, http.MethodPost, "/api/v1/items", admin.AccessToken, addItem, &item, http.StatusCreated); err != nil {
		return fmt.Errorf("add item: %w", err)
	}

	amount := decimal.NewFromInt(20)
	topUp := api.TopUpRequest{Amount: &amount, Currency: "USD"}
	topUpPath := fmt.Sprintf("/api/v1/admin/customers/%d/top-up", customer.AccountID)
	if err := c.call(ctx, c.admin, http.MethodPost, topUpPath, admin.AccessToken, topUp, nil, http.StatusOK); err != nil {
		return fmt.Errorf("top up: %w", err)
	}

	var tx api.TransactionResponse
	purchase := api.PurchaseRequest{ItemIDsOrNames: []string{strconv.FormatInt(item.ID, 10)}, ItemQuantities: []int{3}}
	if err := c.call(ctx, c.sales, http.MethodPost, "/api/v1/sales/purchase", customer.AccessToken, purchase, &tx, http.StatusCreated); err != nil {
		return fmt.Errorf("purchase: %w", err)
	}
	if want := price.Mul(decimal.NewFromInt(3)); !decimal.RequireFromString(tx.Totals.USD).Equal(want) {
		return fmt.Errorf("purchase: expected USD total %s, got %s", want, tx.Totals.USD)
	}
	log.Info("purchase completed", slog.Int64("transaction_id", tx.ID), slog.String("usd_total", tx.Totals.USD))

	// Only completed purchases can be reviewed.
	review := api.ReviewRequest{ItemID: &item.ID, Rating: 5, Comment: "Cooks evenly."}
	if err := c.call(ctx, c.reviews, http.MethodPost, "/api/v1/reviews", customer.AccessToken, review, nil, http.StatusCreated); err != nil {
		return fmt.Errorf("review: %w", err)
	}

	var reversed api.TransactionResponse
	reversePath := fmt.Sprintf("/api/v1/sales/transactions/%d/reverse", tx.ID)
	if err := c.call(ctx, c.sales, http.MethodPost, reversePath, customer.AccessToken, nil, &reversed, http.StatusOK); err != nil {
		return fmt.Errorf("reverse: %w", err)
	}
	if reversed.ReversedAt == nil {
		return errors.New("reverse: transaction has no reversed_at")
	}

	var me api.CustomerResponse
	if err := c.call(ctx, c.customers, http.MethodGet, "/api/v1/customers/me", customer.AccessToken, nil, &me, http.StatusOK); err != nil {
		return fmt.Errorf("get customer: %w", err)
	}
	if !decimal.RequireFromString(me.Balances.USD).Equal(amount) {
		return fmt.Errorf("reverse: expected USD balance %s restored, got %s", amount, me.Balances.USD)
	}

	log.Info("smoke scenario passed", slog.String("item", item.Name))
	return nil
}
