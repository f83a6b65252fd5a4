package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/warehouse/internal/config"
)

func TestInitTracer(t *testing.T) {
	t.Run("Should install only the propagator without a collector", func(t *testing.T) {
		cleanup, err := InitTracer(context.Background(), config.Otel{})
		require.NoError(t, err)
		require.NoError(t, cleanup(context.Background()))

		assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"},
			otel.GetTextMapPropagator().Fields())
	})
}

func TestClientOptions(t *testing.T) {
	t.Run("Should add the auth header", func(t *testing.T) {
		opts := clientOptions(config.Otel{CollectorURL: "collector:4317", Insecure: true, CollectorAuth: "Basic xyz"})

		assert.Len(t, opts, 3)
	})

	t.Run("Should use tls by default", func(t *testing.T) {
		opts := clientOptions(config.Otel{CollectorURL: "collector:4317"})

		assert.Len(t, opts, 2)
	})
}
