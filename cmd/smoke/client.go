package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/phrazzld/storefront-api/internal/api/shared"
)

type serviceURLs struct {
	Admin     string
	Customers string
	Inventory string
	Reviews   string
	Sales     string
}

// client wraps one resty client per service.
type client struct {
	admin     *resty.Client
	customers *resty.Client
	inventory *resty.Client
	reviews   *resty.Client
	sales     *resty.Client
	logger    *slog.Logger
}

func newClient(urls serviceURLs, logger *slog.Logger) *client {
	build := func(base string) *resty.Client {
		return resty.New().
			SetBaseURL(base).
			SetTimeout(10*time.Second).
			SetHeader("Content-Type", "application/json").
			SetError(&shared.ErrorResponse{})
	}
	return &client{
		admin:     build(urls.Admin),
		customers: build(urls.Customers),
		inventory: build(urls.Inventory),
		reviews:   build(urls.Reviews),
		sales:     build(urls.Sales),
		logger:    logger,
	}
}

// call sends one request and decodes a successful body into out. Any status
// other than want is an error carrying the API's message.
func (c *client) call(ctx context.Context, rc *resty.Client, method, path, token string, body, out any, want int) error {
	req := rc.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.logger.Debug("smoke request",
		slog.String("method", method),
		slog.String("url", resp.Request.URL),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode() != want {
		msg := resp.Status()
		if apiErr, ok := resp.Error().(*shared.ErrorResponse); ok && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return fmt.Errorf("%s %s: expected status %d, got %d: %s", method, path, want, resp.StatusCode(), msg)
	}
	return nil
}
