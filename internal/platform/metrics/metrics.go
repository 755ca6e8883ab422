// Package metrics defines the Prometheus collectors shared by all services
// and the chi middleware that records HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Purchase and reversal outcomes used as label values.
const (
	OutcomeCompleted           = "completed"
	OutcomeRejected            = "rejected"
	OutcomeInsufficientStock   = "insufficient_stock"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeFailed              = "failed"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by service, route, method and status.",
		},
		[]string{"service", "route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by service, route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "route", "method"},
	)
	Purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_purchases_total",
			Help: "Purchase attempts by outcome.",
		},
		[]string{"outcome"},
	)
	Reversals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_reversals_total",
			Help: "Transaction reversals by actor role and outcome.",
		},
		[]string{"actor", "outcome"},
	)
	LowStockItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_low_stock_items",
		Help: "Items below the low-stock threshold at the last sweep.",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, Purchases, Reversals, LowStockItems)
}

// Middleware records request count and latency labelled with the chi route
// pattern, so /items/{ref} is one series rather than one per item.
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			HTTPLatency.WithLabelValues(service, route, r.Method).Observe(time.Since(start).Seconds())
			HTTPRequests.WithLabelValues(service, route, r.Method, strconv.Itoa(status)).Inc()
		})
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
