package identity

import (
	"time"

	"github.com/retaildash/backend/internal/domain/session"
)

// LoginInput contains the input for a password submission
type LoginInput struct {
	ClientID string
	Password string
	IP       string // Client IP for login tracking
}

// SessionResult describes the gate as the client should render it
type SessionResult struct {
	State              session.State
	AttemptsRemaining  int
	Warning            string
	LockedUntil        *time.Time
	RemainingSeconds   int
	LockDuration       int // seconds
	IdleTimeoutSeconds int
}

func toSessionResult(out session.Outcome, policy session.Policy) *SessionResult {
	result := &SessionResult{
		State:              out.State,
		AttemptsRemaining:  out.AttemptsRemaining,
		Warning:            out.Warning,
		IdleTimeoutSeconds: int(policy.IdleTimeout / time.Second),
	}
	if out.State == session.StateLockedOut {
		until := out.LockedUntil
		result.LockedUntil = &until
		result.RemainingSeconds = session.RemainingSeconds(out.LockRemaining)
		result.LockDuration = int(out.LockDuration / time.Second)
	}
	return result
}
