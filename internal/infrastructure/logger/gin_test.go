package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findEntry(entries []observer.LoggedEntry, msg string) *observer.LoggedEntry {
	for i := range entries {
		if entries[i].Message == msg {
			return &entries[i]
		}
	}
	return nil
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("logs request with level by status", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

		entries := recorded.All()
		require.Len(t, entries, 2)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, "/missing", entries[1].ContextMap()["path"])
	})

	t.Run("exposes request logger through the request context", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "req-42")
			c.Next()
		})
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/orders", func(c *gin.Context) {
			FromContext(c.Request.Context()).Info("handler")
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders", nil))

		entry := findEntry(recorded.All(), "handler")
		require.NotNil(t, entry)
		assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotNil(t, findEntry(recorded.All(), "Panic recovered"))
}
