package telemetry

import (
	"context"
	"testing"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	shutdown, err := Setup(context.Background(), config.TelemetryConfig{}, "sales", log)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	assert.Contains(t, buf.String(), "tracing disabled")
}
