package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/retaildash/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		p, err := NewProfiler(config.ProfilerConfig{Enabled: false, ApplicationName: "retail-admin"}, zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("requires a server address", func(t *testing.T) {
		p, err := NewProfiler(config.ProfilerConfig{Enabled: true, ApplicationName: "retail-admin"}, zap.NewNop())

		assert.Nil(t, p)
		assert.ErrorContains(t, err, "server address is required")
	})

	t.Run("requires an application name", func(t *testing.T) {
		p, err := NewProfiler(config.ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())

		assert.Nil(t, p)
		assert.ErrorContains(t, err, "application name is required")
	})

	t.Run("rejects an unknown profile type", func(t *testing.T) {
		p, err := NewProfiler(config.ProfilerConfig{
			Enabled:         true,
			ServerAddress:   "http://localhost:4040",
			ApplicationName: "retail-admin",
			ProfileTypes:    []string{"cpu", "heap"},
		}, zap.NewNop())

		assert.Nil(t, p)
		assert.ErrorContains(t, err, `unknown profile type "heap"`)
	})
}

func TestParseProfileTypes(t *testing.T) {
	types, err := parseProfileTypes([]string{"cpu", " Alloc_Space ", "goroutines"})
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileGoroutines,
	}, types)
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("labels are visible inside fn", func(t *testing.T) {
		var route, method string
		var hasEmpty bool
		WithProfilingLabels(context.Background(), map[string]string{
			ProfilingLabelRoute:     "/api/v1/orders/:id",
			ProfilingLabelMethod:    "DELETE",
			ProfilingLabelOperation: "",
		}, func(ctx context.Context) {
			route, _ = pprof.Label(ctx, ProfilingLabelRoute)
			method, _ = pprof.Label(ctx, ProfilingLabelMethod)
			_, hasEmpty = pprof.Label(ctx, ProfilingLabelOperation)
		})

		assert.Equal(t, "/api/v1/orders/:id", route)
		assert.Equal(t, "DELETE", method)
		assert.False(t, hasEmpty)
	})

	t.Run("no labels runs fn with the same context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		called := false
		WithProfilingLabels(ctx, nil, func(got context.Context) {
			called = true
			assert.Equal(t, ctx, got)
		})
		assert.True(t, called)
	})
}

type ctxKey struct{}

func TestTracerProvider_EnableSpanProfiles(t *testing.T) {
	t.Run("disabled tracing is left alone", func(t *testing.T) {
		tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)

		require.NoError(t, tp.EnableSpanProfiles())
		assert.False(t, tp.IsSpanProfilesEnabled())
	})

	t.Run("wraps the global provider once", func(t *testing.T) {
		previous := otel.GetTracerProvider()
		provider := sdktrace.NewTracerProvider()
		t.Cleanup(func() {
			otel.SetTracerProvider(previous)
			_ = provider.Shutdown(context.Background())
		})
		tp := &TracerProvider{provider: provider, logger: zap.NewNop(), config: config.TelemetryConfig{Enabled: true}}

		require.NoError(t, tp.EnableSpanProfiles())
		wrapped := otel.GetTracerProvider()
		require.NoError(t, tp.EnableSpanProfiles())

		assert.True(t, tp.IsSpanProfilesEnabled())
		assert.NotSame(t, provider, wrapped)
		assert.Equal(t, wrapped, otel.GetTracerProvider())
	})
}
