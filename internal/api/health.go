package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/redact"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

const healthPingTimeout = 2 * time.Second

// HealthHandler reports whether a service can reach its database.
func HealthHandler(service string, db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			requestLogger(r, logger).Error("health check failed",
				slog.String("service", service),
				slog.String("error", redact.Error(err)))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
				Status:   "unavailable",
				Service:  service,
				Database: "unreachable",
			})
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:   "ok",
			Service:  service,
			Database: "ok",
		})
	}
}
