package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer returns tracing config bound to a span recorder.
func setupTestTracer(t *testing.T) (TracingConfig, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return TracingConfig{
		ServiceName: "test-service",
		Enabled:     true,
		Options:     []otelgin.Option{otelgin.WithTracerProvider(tp)},
	}, sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTracing_RecordsRequestID(t *testing.T) {
	cfg, sr := setupTestTracer(t)
	router := gin.New()
	router.Use(RequestID(), Tracing(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "trace-req-1")
	serve(router, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "trace-req-1", v.AsString())
}

func TestTracingAttributeInjector(t *testing.T) {
	cfg, sr := setupTestTracer(t)
	router := gin.New()
	router.Use(Tracing(cfg), func(c *gin.Context) {
		c.Set(ClientIDKey, "client-42")
		c.Next()
	}, TracingAttributeInjector())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	v, ok := spanAttr(spans[0], "client_id")
	require.True(t, ok)
	assert.Equal(t, "client-42", v.AsString())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   codes.Code
	}{
		{"success stays unset", http.StatusOK, codes.Unset},
		{"client error", http.StatusConflict, codes.Error},
		{"server error", http.StatusInternalServerError, codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, sr := setupTestTracer(t)
			router := gin.New()
			router.Use(Tracing(cfg), SpanErrorMarker())
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})

			serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.code, spans[0].Status().Code)
		})
	}
}
