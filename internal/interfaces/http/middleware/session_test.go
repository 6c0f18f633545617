package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/domain/session"
	"github.com/retaildash/backend/internal/infrastructure/auth"
	"github.com/retaildash/backend/internal/infrastructure/config"
	"github.com/retaildash/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToucher struct {
	live    map[string]bool
	err     error
	touched []string
}

func (f *fakeToucher) Touch(_ context.Context, clientID string) error {
	f.touched = append(f.touched, clientID)
	if f.err != nil {
		return f.err
	}
	if !f.live[clientID] {
		return session.ErrSessionExpired
	}
	return nil
}

func newIdentityConfig() ClientIdentityConfig {
	return ClientIdentityConfig{
		Tokens: auth.NewClientTokenService(config.SessionConfig{
			TokenSecret: "0123456789abcdef0123456789abcdef",
			TokenIssuer: "test-issuer",
		}),
		CookieName: "retail_client",
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestClientIdentity(t *testing.T) {
	cfg := newIdentityConfig()
	router := gin.New()
	router.Use(ClientIdentity(cfg))
	router.GET("/whoami", func(c *gin.Context) {
		assert.Equal(t, GetClientID(c), logger.GetClientID(c.Request.Context()))
		c.String(http.StatusOK, GetClientID(c))
	})

	t.Run("issues a cookie to new clients", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		require.Equal(t, http.StatusOK, w.Code)
		ck := findCookie(w, "retail_client")
		require.NotNil(t, ck)
		assert.True(t, ck.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

		claims, err := cfg.Tokens.Validate(ck.Value)
		require.NoError(t, err)
		assert.Equal(t, claims.ClientID, w.Body.String())
	})

	t.Run("keeps the ID of a valid cookie", func(t *testing.T) {
		token, err := cfg.Tokens.IssueFor("known-client")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "retail_client", Value: token.Value})

		w := serve(router, req)

		assert.Equal(t, "known-client", w.Body.String())
		assert.Nil(t, findCookie(w, "retail_client"))
	})

	t.Run("replaces a tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "retail_client", Value: "not-a-token"})

		w := serve(router, req)

		require.NotNil(t, findCookie(w, "retail_client"))
		assert.NotEmpty(t, w.Body.String())
	})
}

func TestRequireSession(t *testing.T) {
	cfg := newIdentityConfig()
	token, err := cfg.Tokens.IssueFor("client-a")
	require.NoError(t, err)

	newRouter := func(toucher SessionToucher) *gin.Engine {
		router := gin.New()
		router.Use(RequestID(), ClientIdentity(cfg), RequireSession(toucher))
		router.GET("/private", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}
	request := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "retail_client", Value: token.Value})
		return req
	}

	t.Run("live session passes and is touched", func(t *testing.T) {
		toucher := &fakeToucher{live: map[string]bool{"client-a": true}}

		w := serve(newRouter(toucher), request())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"client-a"}, toucher.touched)
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		w := serve(newRouter(&fakeToucher{}), request())

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_SESSION_EXPIRED")
	})

	t.Run("store failure", func(t *testing.T) {
		w := serve(newRouter(&fakeToucher{err: errors.New("redis down")}), request())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	})
}
