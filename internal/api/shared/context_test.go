package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)
	assert.Len(t, traceID, 2*TraceIDLength)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	assert.Empty(t, GetTraceID(ctx), "parent context is unchanged")
}

func TestGetTraceIDWithWrongType(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestGenerateTraceIDIsUnique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool, 500)
	for i := 0; i < 500; i++ {
		id := generateTraceID()
		require.Len(t, id, 32)
		assert.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}

func TestGenerateFallbackTraceID(t *testing.T) {
	t.Parallel()
	id := generateFallbackTraceID()
	assert.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
}

func TestPrincipalRoundTrip(t *testing.T) {
	t.Parallel()

	_, ok := GetPrincipal(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), auth.Principal{AccountID: 42, Role: domain.RoleAdmin})
	p, ok := GetPrincipal(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), p.AccountID)
	assert.Equal(t, domain.RoleAdmin, p.Role)

	_, ok = GetPrincipal(WithPrincipal(context.Background(), auth.Principal{}))
	assert.False(t, ok, "zero account id is not a principal")
}
