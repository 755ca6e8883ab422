package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{LogLevel: "debug", ShutdownTimeoutSeconds: 1},
		Ports:  config.PortsConfig{Admin: 8080, Customers: 8081, Inventory: 8082, Reviews: 8083, Sales: 8084},
		Database: config.DatabaseConfig{
			URL:          "postgres://storefront@localhost:5432/storefront",
			MaxOpenConns: 2,
			MaxIdleConns: 1,
		},
		Auth:  auth.DefaultJWTConfig(),
		Sales: config.SalesConfig{ReversalWindowHours: 240},
		Jobs:  config.JobsConfig{LowStockThreshold: 5, LowStockSchedule: "@every 1h"},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewApplication_ServesEachService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		service   string
		protected string
		method    string
		hasJobs   bool
	}{
		{service: config.ServiceCustomers, method: http.MethodGet, protected: "/api/v1/customers/me"},
		{service: config.ServiceAdmin, method: http.MethodGet, protected: "/api/v1/admin/customers"},
		{service: config.ServiceInventory, method: http.MethodGet, protected: "/api/v1/items", hasJobs: true},
		{service: config.ServiceReviews, method: http.MethodPost, protected: "/api/v1/reviews"},
		{service: config.ServiceSales, method: http.MethodGet, protected: "/api/v1/sales/transactions"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.service, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			app, err := newApplication(testConfig(), tt.service, discardLogger(), db, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.hasJobs, app.jobs != nil)
			router := app.setupRouter()

			mock.ExpectPing()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"service":"`+tt.service+`"`)

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "storefront_low_stock_items")

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.protected, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNewApplication_Errors(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = newApplication(testConfig(), "payments", discardLogger(), db, nil)
	assert.ErrorContains(t, err, `unknown service "payments"`)

	cfg := testConfig()
	cfg.Jobs.LowStockSchedule = "every tuesday"
	_, err = newApplication(cfg, config.ServiceInventory, discardLogger(), db, nil)
	assert.ErrorContains(t, err, "invalid low-stock schedule")

	cfg = testConfig()
	cfg.Auth.JWTSecret = "short"
	_, err = newApplication(cfg, config.ServiceSales, discardLogger(), db, nil)
	assert.ErrorContains(t, err, "JWT service")
}

func TestHealth_DatabaseDown(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	app, err := newApplication(testConfig(), config.ServiceSales, discardLogger(), db, nil)
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(assert.AnError)
	rec := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type fakeSweeper struct {
	thresholds []int
}

func (f *fakeSweeper) SweepLowStock(_ context.Context, threshold int) ([]*domain.Item, error) {
	f.thresholds = append(f.thresholds, threshold)
	return nil, nil
}

func TestNewJobScheduler(t *testing.T) {
	t.Parallel()

	sweeper := &fakeSweeper{}
	c, err := newJobScheduler(config.JobsConfig{LowStockThreshold: 3, LowStockSchedule: "*/5 * * * *"}, sweeper, discardLogger())
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 1)
	entries[0].WrappedJob.Run()

	assert.Equal(t, []int{3}, sweeper.thresholds)
}
