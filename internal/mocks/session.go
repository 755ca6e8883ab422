package mocks

import (
	"context"
	"strconv"
	"sync"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// MockSessionCache is an in-memory service.SessionCache. Err, when set, is
// returned by every method.
type MockSessionCache struct {
	mu       sync.Mutex
	sessions map[string]cache.Session
	Err      error
	Gets     int
}

func sessionKey(role domain.Role, id int64) string {
	return string(role) + ":" + strconv.FormatInt(id, 10)
}

func (m *MockSessionCache) Get(_ context.Context, role domain.Role, id int64) (cache.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.Err != nil {
		return cache.Session{}, false, m.Err
	}
	s, ok := m.sessions[sessionKey(role, id)]
	return s, ok, nil
}

func (m *MockSessionCache) Add(_ context.Context, role domain.Role, id int64, session cache.Session) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.sessions[sessionKey(role, id)]; ok {
		return false, nil
	}
	if m.sessions == nil {
		m.sessions = make(map[string]cache.Session)
	}
	m.sessions[sessionKey(role, id)] = session
	return true, nil
}

func (m *MockSessionCache) Set(_ context.Context, role domain.Role, id int64, session cache.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.sessions == nil {
		m.sessions = make(map[string]cache.Session)
	}
	m.sessions[sessionKey(role, id)] = session
	return nil
}

func (m *MockSessionCache) Invalidate(_ context.Context, role domain.Role, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.sessions, sessionKey(role, id))
	return nil
}

// MockSessionGuard implements service.SessionGuard for testing. Without
// AuthorizeFn it accepts any claims whose role matches.
type MockSessionGuard struct {
	AuthorizeFn func(ctx context.Context, claims *auth.Claims, role domain.Role) (auth.Principal, error)

	mu        sync.Mutex
	Refreshed []int64
}

func (m *MockSessionGuard) Authorize(ctx context.Context, claims *auth.Claims, role domain.Role) (auth.Principal, error) {
	if m.AuthorizeFn != nil {
		return m.AuthorizeFn(ctx, claims, role)
	}
	if claims == nil {
		return auth.Principal{}, auth.ErrMissingToken
	}
	return claims.Principal(), nil
}

func (m *MockSessionGuard) Refresh(_ context.Context, _ domain.Role, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshed = append(m.Refreshed, id)
}
