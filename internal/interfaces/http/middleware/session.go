package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/domain/session"
	"github.com/retaildash/backend/internal/infrastructure/auth"
	"github.com/retaildash/backend/internal/infrastructure/logger"
	"github.com/retaildash/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ClientIDKey is the gin context key for the browser's client ID
const ClientIDKey = "client_id"

// ClientIdentityConfig configures the client identity cookie
type ClientIdentityConfig struct {
	Tokens     *auth.ClientTokenService
	CookieName string
	Secure     bool
	Logger     *zap.Logger
}

// ClientIdentity makes sure every request carries a client ID.
// The ID lives in a signed cookie. A missing or invalid cookie gets a fresh
// ID and a cookie nearing expiry is re-signed for the same ID.
func ClientIdentity(cfg ClientIdentityConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		var (
			clientID string
			issued   *auth.ClientToken
			err      error
		)

		if raw, cookieErr := c.Cookie(cfg.CookieName); cookieErr == nil && raw != "" {
			claims, validateErr := cfg.Tokens.Validate(raw)
			switch {
			case validateErr != nil:
				log.Debug("client cookie rejected", zap.Error(validateErr))
			case cfg.Tokens.NeedsRenewal(claims):
				clientID = claims.ClientID
				issued, err = cfg.Tokens.IssueFor(clientID)
			default:
				clientID = claims.ClientID
			}
		}
		if clientID == "" {
			issued, err = cfg.Tokens.Issue()
		}
		if err != nil {
			log.Error("failed to issue client token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c)))
			return
		}
		if issued != nil {
			clientID = issued.ClientID
			setClientCookie(c, cfg, issued)
		}

		c.Set(ClientIDKey, clientID)
		c.Request = c.Request.WithContext(logger.WithClientID(c.Request.Context(), clientID))
		c.Next()
	}
}

func setClientCookie(c *gin.Context, cfg ClientIdentityConfig, token *auth.ClientToken) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, token.Value, int(cfg.Tokens.Lifetime().Seconds()), "/", "", cfg.Secure, true)
}

// GetClientID returns the client ID set by ClientIdentity
func GetClientID(c *gin.Context) string {
	return c.GetString(ClientIDKey)
}

// SessionToucher records activity for a client's session
type SessionToucher interface {
	Touch(ctx context.Context, clientID string) error
}

// RequireSession rejects requests from clients without a live session.
// Every accepted request counts as activity and resets the idle timer.
func RequireSession(sessions SessionToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := GetClientID(c)
		if clientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Login required", GetRequestID(c)))
			return
		}

		if err := sessions.Touch(c.Request.Context(), clientID); err != nil {
			if errors.Is(err, session.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeSessionExpired, session.ErrSessionExpired.Message, GetRequestID(c)))
				return
			}
			logger.L(c.Request.Context()).Error("session check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
