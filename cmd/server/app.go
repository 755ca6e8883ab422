package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api"
	apiMiddleware "github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// application holds the dependencies of one running service and owns their
// cleanup on shutdown.
type application struct {
	service string
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	redis   *redis.Client

	jwtService auth.JWTService
	guard      service.SessionGuard
	authMW     *apiMiddleware.AuthMiddleware

	// mount registers the service's API routes.
	mount func(r chi.Router)

	// jobs is only set for services with scheduled work.
	jobs *cron.Cron
}

// newApplication wires the stores, services and handlers for one service.
// rdb may be nil, in which case session checks always read the database.
func newApplication(
	cfg *config.Config,
	serviceName string,
	logger *slog.Logger,
	db *sql.DB,
	rdb *redis.Client,
) (*application, error) {
	app := &application{
		service: serviceName,
		config:  cfg,
		logger:  logger,
		db:      db,
		redis:   rdb,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	customers := postgres.NewPostgresCustomerStore(db, logger)
	admins := postgres.NewPostgresAdminStore(db, logger)
	items := postgres.NewPostgresItemStore(db, logger)
	transactions := postgres.NewPostgresTransactionStore(db, logger)
	reviews := postgres.NewPostgresReviewStore(db, logger)

	var sessions service.SessionCache
	if rdb != nil {
		ttl := time.Duration(cfg.Auth.RefreshTokenLifetimeMinutes) * time.Minute
		sessions = cache.NewSessionCache(rdb, ttl, logger)
		logger.Info("session cache enabled", slog.Duration("ttl", ttl))
	}
	app.guard = service.NewSessionGuard(customers, admins, sessions, logger)
	app.authMW = apiMiddleware.NewAuthMiddleware(app.jwtService, app.guard, logger)

	passwords := auth.NewBcryptVerifier(cfg.Auth.BcryptCost)
	window := time.Duration(cfg.Sales.ReversalWindowHours) * time.Hour

	switch serviceName {
	case config.ServiceCustomers:
		accounts := service.NewCustomerAccountService(customers, db, app.jwtService, passwords, app.guard, logger)
		handler := api.NewCustomerAccountHandler(accounts, logger)
		app.mount = func(r chi.Router) {
			api.MountCustomerRoutes(r, handler, app.authMW)
		}

	case config.ServiceAdmin:
		accounts := service.NewAdminAccountService(admins, db, app.jwtService, passwords, app.guard, logger)
		management := service.NewCustomerManagementService(db, customers, items, transactions, app.guard, window, logger)
		accountHandler := api.NewAdminAccountHandler(accounts, logger)
		managementHandler := api.NewCustomerManagementHandler(management, logger)
		app.mount = func(r chi.Router) {
			api.MountAdminRoutes(r, accountHandler, managementHandler, app.authMW)
		}

	case config.ServiceInventory:
		inventory := service.NewInventoryService(db, items, logger)
		handler := api.NewInventoryHandler(inventory, logger)
		app.mount = func(r chi.Router) {
			api.MountInventoryRoutes(r, handler, app.authMW)
		}
		app.jobs, err = newJobScheduler(cfg.Jobs, inventory, logger)
		if err != nil {
			return nil, err
		}

	case config.ServiceReviews:
		reviewService := service.NewReviewService(db, reviews, customers, items, transactions, logger)
		handler := api.NewReviewHandler(reviewService, logger)
		app.mount = func(r chi.Router) {
			api.MountReviewRoutes(r, handler, app.authMW)
		}

	case config.ServiceSales:
		sales := service.NewSalesService(db, customers, items, transactions, window, logger)
		handler := api.NewSalesHandler(sales, logger)
		app.mount = func(r chi.Router) {
			api.MountSalesRoutes(r, handler, app.authMW)
		}

	default:
		return nil, fmt.Errorf("unknown service %q", serviceName)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if app.jobs != nil {
		app.jobs.Start()
		app.logger.Info("scheduled jobs started", slog.Int("jobs", len(app.jobs.Entries())))
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources in reverse order of acquisition.
func (app *application) cleanup() {
	if app.jobs != nil {
		<-app.jobs.Stop().Done()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.Any("error", err))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.Any("error", err))
		}
	}

	app.logger.Info("application shutdown completed")
}
