package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/application/identity"
	"github.com/retaildash/backend/internal/domain/session"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/interfaces/http/dto"
	"github.com/retaildash/backend/internal/interfaces/http/middleware"
)

// LoginRequest is the body of a password submission
type LoginRequest struct {
	Password string `json:"password" binding:"required,max=256"`
}

// SessionStatusResponse describes the password gate for the calling client
type SessionStatusResponse struct {
	State              string     `json:"state"`
	AttemptsRemaining  int        `json:"attempts_remaining"`
	Warning            string     `json:"warning,omitempty"`
	LockedUntil        *time.Time `json:"locked_until,omitempty"`
	RemainingSeconds   int        `json:"remaining_seconds,omitempty"`
	LockDuration       int        `json:"lock_duration,omitempty"`
	IdleTimeoutSeconds int        `json:"idle_timeout_seconds"`
}

func toSessionStatusResponse(r *identity.SessionResult) SessionStatusResponse {
	return SessionStatusResponse{
		State:              string(r.State),
		AttemptsRemaining:  r.AttemptsRemaining,
		Warning:            r.Warning,
		LockedUntil:        r.LockedUntil,
		RemainingSeconds:   r.RemainingSeconds,
		LockDuration:       r.LockDuration,
		IdleTimeoutSeconds: r.IdleTimeoutSeconds,
	}
}

// SessionHandler serves the password gate
type SessionHandler struct {
	BaseHandler
	sessions *identity.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions *identity.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login godoc
// @ID          loginSession
// @Summary     Submit the shared password
// @Description Checks the password for the calling client. Rejections carry the gate state in data.
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Password"
// @Success     200 {object} dto.Response{data=SessionStatusResponse}
// @Failure     400 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     423 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Router      /password/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), identity.LoginInput{
		ClientID: clientID,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		if result == nil {
			h.HandleError(c, err)
			return
		}
		status, code, message := http.StatusUnauthorized, dto.ErrCodeInvalidPassword, session.ErrInvalidPassword.Message
		if errors.Is(err, shared.ErrAccountLocked) {
			status, code, message = http.StatusLocked, dto.ErrCodeAccountLocked, shared.ErrAccountLocked.Message
			c.Header("Retry-After", strconv.Itoa(result.RemainingSeconds))
		}
		c.JSON(status, dto.NewErrorResponseWithData(code, message, getRequestID(c), toSessionStatusResponse(result)))
		return
	}
	h.Success(c, toSessionStatusResponse(result))
}

// Logout godoc
// @ID          logoutSession
// @Summary     End the session
// @Description Ends the session of the calling client and returns the new gate state.
// @Tags        session
// @Produce     json
// @Success     200 {object} dto.Response{data=SessionStatusResponse}
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Router      /password/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), clientID); err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.sessions.Status(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSessionStatusResponse(result))
}

// Status godoc
// @ID          getSessionStatus
// @Summary     Get the gate state
// @Description Reports whether the calling client is unlocked, locked out or idle.
// @Tags        session
// @Produce     json
// @Success     200 {object} dto.Response{data=SessionStatusResponse}
// @Failure     401 {object} dto.Response
// @Failure     500 {object} dto.Response
// @Router      /password/status [get]
func (h *SessionHandler) Status(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}
	result, err := h.sessions.Status(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSessionStatusResponse(result))
}

func (h *SessionHandler) clientID(c *gin.Context) (string, bool) {
	clientID := middleware.GetClientID(c)
	if clientID == "" {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Client identity is missing")
		return "", false
	}
	return clientID, true
}
