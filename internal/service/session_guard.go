package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// SessionCache is the subset of cache.SessionCache the guard needs.
type SessionCache interface {
	Get(ctx context.Context, role domain.Role, id int64) (cache.Session, bool, error)
	Add(ctx context.Context, role domain.Role, id int64, session cache.Session) (bool, error)
	Set(ctx context.Context, role domain.Role, id int64, session cache.Session) error
	Invalidate(ctx context.Context, role domain.Role, id int64) error
}

// SessionGuard decides whether validated token claims still authorize a request.
type SessionGuard interface {
	// Authorize checks role, account existence, revocation and, for
	// customers, the banned flag. It returns the caller on success.
	Authorize(ctx context.Context, claims *auth.Claims, role domain.Role) (auth.Principal, error)

	// Refresh overwrites the cached session state of the account with what
	// the database holds now. Call it after logout, ban or unban has been
	// written.
	Refresh(ctx context.Context, role domain.Role, id int64)
}

type sessionGuard struct {
	customers store.CustomerStore
	admins    store.AdminStore
	cache     SessionCache
	logger    *slog.Logger
}

// NewSessionGuard creates a SessionGuard. sessions may be nil, in which case
// every check reads the database.
func NewSessionGuard(
	customers store.CustomerStore,
	admins store.AdminStore,
	sessions SessionCache,
	logger *slog.Logger,
) SessionGuard {
	if customers == nil || admins == nil {
		// ALLOW-PANIC
		panic("account stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionGuard{
		customers: customers,
		admins:    admins,
		cache:     sessions,
		logger:    logger.With(slog.String("component", "session_guard")),
	}
}

func (g *sessionGuard) Authorize(ctx context.Context, claims *auth.Claims, role domain.Role) (auth.Principal, error) {
	if claims == nil {
		return auth.Principal{}, auth.ErrMissingToken
	}
	if claims.Role != role {
		return auth.Principal{}, ErrForbiddenRole
	}

	session, err := g.session(ctx, role, claims.AccountID)
	if err != nil {
		return auth.Principal{}, err
	}

	if domain.TokenRevoked(claims.IssuedAt, session.LastLogout) {
		g.logger.Debug("rejected revoked token",
			slog.String("role", string(role)),
			slog.Int64("account_id", claims.AccountID))
		return auth.Principal{}, auth.ErrTokenRevoked
	}
	if session.Banned {
		return auth.Principal{}, domain.ErrCustomerBanned
	}

	return claims.Principal(), nil
}

func (g *sessionGuard) Refresh(ctx context.Context, role domain.Role, id int64) {
	if g.cache == nil {
		return
	}
	log := g.logger.With(slog.String("role", string(role)), slog.Int64("account_id", id))

	session, err := g.load(ctx, role, id)
	if err == nil {
		if err = g.cache.Set(ctx, role, id, session); err == nil {
			return
		}
	}
	log.Warn("failed to refresh cached session", slog.String("error", redact.Error(err)))

	// A missing entry is refilled from the database on the next check.
	if err := g.cache.Invalidate(ctx, role, id); err != nil {
		log.Error("failed to drop cached session", slog.String("error", redact.Error(err)))
	}
}

// session reads through the cache. Cache failures are logged and the
// database answers instead.
func (g *sessionGuard) session(ctx context.Context, role domain.Role, id int64) (cache.Session, error) {
	if g.cache != nil {
		session, found, err := g.cache.Get(ctx, role, id)
		if err != nil {
			g.logger.Warn("session cache read failed",
				slog.String("error", redact.Error(err)))
		} else if found {
			return session, nil
		}
	}

	session, err := g.load(ctx, role, id)
	if err != nil {
		return cache.Session{}, err
	}

	// The load may predate a concurrent logout or ban, so it only fills an
	// empty slot and never replaces what Refresh wrote.
	if g.cache != nil {
		if _, err := g.cache.Add(ctx, role, id, session); err != nil {
			g.logger.Warn("session cache write failed",
				slog.String("error", redact.Error(err)))
		}
	}
	return session, nil
}

func (g *sessionGuard) load(ctx context.Context, role domain.Role, id int64) (cache.Session, error) {
	var (
		session cache.Session
		err     error
	)
	switch role {
	case domain.RoleCustomer:
		var c *domain.Customer
		c, err = g.customers.GetByID(ctx, id)
		if err == nil {
			session = cache.Session{LastLogout: c.LastLogout, Banned: c.Status == domain.CustomerBanned}
		}
	case domain.RoleAdmin:
		var a *domain.Admin
		a, err = g.admins.GetByID(ctx, id)
		if err == nil {
			session = cache.Session{LastLogout: a.LastLogout}
		}
	default:
		return cache.Session{}, ErrForbiddenRole
	}

	if errors.Is(err, store.ErrNotFound) {
		return cache.Session{}, ErrAccountNotFound
	}
	if err != nil {
		return cache.Session{}, fmt.Errorf("failed to load %s session: %w", role, err)
	}
	return session, nil
}
