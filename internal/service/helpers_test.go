package service_test

import (
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func testClock() service.Option {
	return service.WithClock(func() time.Time { return testNow })
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProfile() domain.Profile {
	return domain.Profile{
		Username:      "jane_doe",
		Email:         "jane@example.com",
		FirstName:     "Jane",
		LastName:      "Doe",
		Phone:         "+961-71-123-456",
		Age:           30,
		Gender:        domain.GenderFemale,
		MaritalStatus: domain.MaritalSingle,
	}
}

func testCustomer(id int64, lbp, usd string) *domain.Customer {
	return &domain.Customer{
		ID:           id,
		Profile:      testProfile(),
		PasswordHash: "hashed:secret123",
		Balances:     domain.Amounts{LBP: dec(lbp), USD: dec(usd)},
		Status:       domain.CustomerActive,
		CreatedAt:    testNow.Add(-30 * 24 * time.Hour),
		UpdatedAt:    testNow.Add(-30 * 24 * time.Hour),
	}
}

func testItem(id int64, name, price string, currency domain.Currency, qty int) *domain.Item {
	return &domain.Item{
		ID:           id,
		Name:         name,
		Category:     "food",
		PricePerUnit: dec(price),
		Currency:     currency,
		Quantity:     qty,
		Description:  name + " description",
		CreatedAt:    testNow.Add(-time.Hour),
		UpdatedAt:    testNow.Add(-time.Hour),
	}
}
