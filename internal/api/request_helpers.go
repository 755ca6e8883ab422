package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// getPathID parses a positive integer path parameter.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", nil)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// getPathItemRef parses an "id or name" path parameter. Names may be
// percent-encoded.
func getPathItemRef(r *http.Request, paramName string) (domain.ItemRef, error) {
	raw := chi.URLParam(r, paramName)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return domain.ItemRef{}, domain.NewValidationError(paramName, "is not a valid path segment", nil)
	}
	return domain.ParseItemRef(decoded)
}

// getPage reads optional limit and offset query parameters.
func getPage(r *http.Request) (store.Page, error) {
	var page store.Page
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return store.Page{}, domain.NewValidationError("limit", "must be a positive integer", nil)
		}
		page.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return store.Page{}, domain.NewValidationError("offset", "must be a non-negative integer", nil)
		}
		page.Offset = n
	}
	return page, nil
}

// requirePrincipal returns the caller set by the auth middleware, writing a
// 401 when it is missing.
func requirePrincipal(w http.ResponseWriter, r *http.Request, log *slog.Logger) (auth.Principal, bool) {
	p, ok := shared.GetPrincipal(r.Context())
	if !ok {
		log.Warn("principal not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return auth.Principal{}, false
	}
	return p, true
}

// decodeAndValidate decodes the body into v and validates it, writing a 400
// on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// requestLogger returns the request-scoped logger, falling back to the
// handler's own.
func requestLogger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), fallback)
}
