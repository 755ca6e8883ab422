// Package main is an end-to-end smoke client. Against running services it
// registers a customer and an admin, stocks an item and tops up the customer.
// The customer then buys the item, reviews it and reverses the purchase.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		urls    serviceURLs
		timeout time.Duration
		level   string
	)

	cmd := &cobra.Command{
		Use:           "smoke",
		Short:         "Run an end-to-end purchase scenario against running services",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			log := logger.Setup(level, "smoke")
			c := newClient(urls, log)
			return runScenario(ctx, c, newIdentity(time.Now()), log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&urls.Admin, "admin-url", envOr("SMOKE_ADMIN_URL", "http://localhost:8080"), "admin service base URL")
	f.StringVar(&urls.Customers, "customers-url", envOr("SMOKE_CUSTOMERS_URL", "http://localhost:8081"), "customers service base URL")
	f.StringVar(&urls.Inventory, "inventory-url", envOr("SMOKE_INVENTORY_URL", "http://localhost:8082"), "inventory service base URL")
	f.StringVar(&urls.Reviews, "reviews-url", envOr("SMOKE_REVIEWS_URL", "http://localhost:8083"), "reviews service base URL")
	f.StringVar(&urls.Sales, "sales-url", envOr("SMOKE_SALES_URL", "http://localhost:8084"), "sales service base URL")
	f.DurationVar(&timeout, "timeout", time.Minute, "overall scenario timeout")
	f.StringVar(&level, "log-level", "info", "log level")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
