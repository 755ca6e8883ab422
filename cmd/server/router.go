package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/storefront-api/internal/api"
	apiMiddleware "github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/platform/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// setupRouter builds the service router. otelhttp wraps everything so the
// trace middleware can reuse the span's trace ID.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(app.service))

	r.Get("/health", api.HealthHandler(app.service, app.db, app.logger))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	app.mount(r)

	return otelhttp.NewHandler(r, "storefront-"+app.service)
}
