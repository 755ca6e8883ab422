package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// AuthMiddleware authenticates bearer access tokens and checks the session
// is still live for the required role.
type AuthMiddleware struct {
	tokens auth.JWTService
	guard  service.SessionGuard
	logger *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.JWTService, guard service.SessionGuard, logger *slog.Logger) *AuthMiddleware {
	if tokens == nil || guard == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("token service and session guard cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		tokens: tokens,
		guard:  guard,
		logger: logger.With(slog.String("component", "auth_middleware")),
	}
}

// Require only lets requests through whose access token belongs to a live
// account of the given role. The caller is stored with shared.WithPrincipal.
func (m *AuthMiddleware) Require(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
				return
			}

			claims, err := m.tokens.ValidateToken(r.Context(), strings.TrimSpace(token))
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
				case errors.Is(err, auth.ErrInvalidToken),
					errors.Is(err, auth.ErrTokenNotYetValid),
					errors.Is(err, auth.ErrWrongTokenType):
					shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				default:
					shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
				}
				return
			}

			principal, err := m.guard.Authorize(r.Context(), claims, role)
			if err != nil {
				m.rejectSession(w, r, err)
				return
			}

			ctx := shared.WithPrincipal(r.Context(), principal)
			log := logger.FromContextOrDefault(ctx, m.logger).With(
				slog.String("role", string(principal.Role)),
				slog.Int64("account_id", principal.AccountID))
			ctx = logger.WithLogger(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *AuthMiddleware) rejectSession(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
	case errors.Is(err, service.ErrForbiddenRole):
		shared.RespondWithError(w, r, http.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, auth.ErrTokenRevoked):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Token has been revoked")
	case errors.Is(err, service.ErrAccountNotFound):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account no longer exists")
	case errors.Is(err, domain.ErrCustomerBanned):
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Customer is banned", err,
			shared.WithElevatedLogLevel())
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
	}
}

// GetPrincipal returns the caller stored by Require.
func GetPrincipal(r *http.Request) (auth.Principal, bool) {
	return shared.GetPrincipal(r.Context())
}
