package session

import (
	"fmt"
	"math"
	"time"

	"github.com/retaildash/backend/internal/domain/shared"
)

// State is the position of a client in the gate's state machine
type State string

const (
	StateLoggedOut State = "logged_out"
	StateLoggedIn  State = "logged_in"
	StateLockedOut State = "locked_out"
)

// Policy holds the gate's timing and attempt limits
type Policy struct {
	IdleTimeout   time.Duration
	MaxAttempts   int
	WarnFrom      int
	FirstLockout  time.Duration
	RepeatLockout time.Duration
}

// DefaultPolicy returns the standard limits: 3 minutes idle, warnings from the
// 3rd failure, a 60 second lockout at the 5th and 600 seconds for a repeat.
func DefaultPolicy() Policy {
	return Policy{
		IdleTimeout:   3 * time.Minute,
		MaxAttempts:   5,
		WarnFrom:      3,
		FirstLockout:  60 * time.Second,
		RepeatLockout: 600 * time.Second,
	}
}

// PasswordVerifier checks a submitted password against the configured secret
type PasswordVerifier interface {
	Verify(password string) bool
}

// Errors returned by Submit
var (
	ErrInvalidPassword = shared.NewDomainError("INVALID_PASSWORD", "Incorrect password")
	ErrSessionExpired  = shared.NewDomainError("SESSION_EXPIRED", "Session expired, please log in again")
)

// Outcome describes the gate after a submit
type Outcome struct {
	State             State
	AttemptsRemaining int
	Warning           string
	LockedUntil       time.Time
	LockDuration      time.Duration
	LockRemaining     time.Duration
}

// Guard runs the state machine for one client over its persisted state.
// It is not safe for concurrent use; build one per request from the store.
type Guard struct {
	policy Policy
	clock  Clock
	state  SessionState
}

// NewGuard restores a guard from persisted state. Expired sessions and
// expired lockouts are dropped immediately.
func NewGuard(state SessionState, policy Policy, clock Clock) *Guard {
	if clock == nil {
		clock = SystemClock{}
	}
	g := &Guard{policy: policy, clock: clock, state: copyState(state)}
	g.expire(clock.Now())
	return g
}

func copyState(s SessionState) SessionState {
	var out SessionState
	if s.Session != nil {
		rec := *s.Session
		out.Session = &rec
	}
	if s.Block != nil {
		rec := *s.Block
		out.Block = &rec
	}
	return out
}

// State returns the current state
func (g *Guard) State() State {
	return g.stateAt(g.clock.Now())
}

func (g *Guard) stateAt(now time.Time) State {
	if g.lockedAt(now) {
		return StateLockedOut
	}
	if g.state.Session != nil {
		return StateLoggedIn
	}
	return StateLoggedOut
}

func (g *Guard) lockedAt(now time.Time) bool {
	b := g.state.Block
	return b != nil && b.EndTime > 0 && now.Before(fromEpochMillis(b.EndTime))
}

// Snapshot returns the state to persist
func (g *Guard) Snapshot() SessionState {
	return copyState(g.state)
}

// Attempts returns the number of consecutive failed submits
func (g *Guard) Attempts() int {
	if g.state.Block == nil {
		return 0
	}
	return g.state.Block.AttemptCount
}

// Submit checks a password. A wrong password counts as a failure; reaching
// MaxAttempts locks the client out. While locked out every submit is
// rejected without being checked.
func (g *Guard) Submit(password string, verifier PasswordVerifier) (Outcome, error) {
	now := g.clock.Now()
	g.expire(now)

	if g.lockedAt(now) {
		out := g.lockOutcome(now)
		return out, lockedError(out)
	}

	if verifier.Verify(password) {
		g.resetAttempts()
		g.state.Session = &SessionRecord{Timestamp: toEpochMillis(now)}
		return Outcome{State: StateLoggedIn}, nil
	}

	block := g.state.Block
	if block == nil {
		block = &BlockRecord{}
		g.state.Block = block
	}
	block.AttemptCount++
	g.state.Session = nil

	if block.AttemptCount >= g.policy.MaxAttempts {
		duration := g.policy.FirstLockout
		if block.Duration > 0 {
			duration = g.policy.RepeatLockout
		}
		block.Duration = int(duration / time.Second)
		block.EndTime = toEpochMillis(now.Add(duration))
		out := g.lockOutcome(now)
		return out, lockedError(out)
	}

	remaining := g.policy.MaxAttempts - block.AttemptCount
	out := Outcome{State: StateLoggedOut, AttemptsRemaining: remaining}
	if block.AttemptCount >= g.policy.WarnFrom {
		out.Warning = fmt.Sprintf("Incorrect password. %d attempt(s) remaining before lockout", remaining)
	}
	return out, ErrInvalidPassword.WithDetails(map[string]any{
		"attempts_remaining": remaining,
	})
}

// Touch records user activity. It slides the idle window of a logged-in
// client and reports whether the client is still logged in.
func (g *Guard) Touch() bool {
	now := g.clock.Now()
	g.expire(now)
	if g.stateAt(now) != StateLoggedIn {
		return false
	}
	g.state.Session.Timestamp = toEpochMillis(now)
	return true
}

// Tick applies timeouts without recording activity and returns the
// resulting state. It is the periodic check for idle sessions and
// finished lockouts.
func (g *Guard) Tick() State {
	now := g.clock.Now()
	g.expire(now)
	return g.stateAt(now)
}

// Logout ends the session
func (g *Guard) Logout() {
	g.state.Session = nil
}

// Status returns the gate as seen by the client without changing activity
func (g *Guard) Status() Outcome {
	now := g.clock.Now()
	g.expire(now)
	switch g.stateAt(now) {
	case StateLockedOut:
		return g.lockOutcome(now)
	case StateLoggedIn:
		return Outcome{State: StateLoggedIn}
	}
	return Outcome{State: StateLoggedOut, AttemptsRemaining: g.policy.MaxAttempts - g.Attempts()}
}

func (g *Guard) expire(now time.Time) {
	if s := g.state.Session; s != nil {
		if now.Sub(fromEpochMillis(s.Timestamp)) >= g.policy.IdleTimeout {
			g.state.Session = nil
		}
	}
	if b := g.state.Block; b != nil && b.EndTime > 0 && !now.Before(fromEpochMillis(b.EndTime)) {
		// lockout over: forget the attempts, remember the duration for escalation
		b.EndTime = 0
		b.AttemptCount = 0
	}
}

func (g *Guard) resetAttempts() {
	b := g.state.Block
	if b == nil {
		return
	}
	if b.Duration == 0 {
		g.state.Block = nil
		return
	}
	b.AttemptCount = 0
	b.EndTime = 0
}

func (g *Guard) lockOutcome(now time.Time) Outcome {
	b := g.state.Block
	until := fromEpochMillis(b.EndTime)
	return Outcome{
		State:         StateLockedOut,
		LockedUntil:   until,
		LockDuration:  time.Duration(b.Duration) * time.Second,
		LockRemaining: until.Sub(now),
	}
}

// RemainingSeconds rounds a countdown up to whole seconds
func RemainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func lockedError(out Outcome) error {
	secs := RemainingSeconds(out.LockRemaining)
	return shared.ErrAccountLocked.WithDetails(map[string]any{
		"remaining_seconds": secs,
		"lock_duration":     int(out.LockDuration / time.Second),
		"message":           fmt.Sprintf("Please wait %d seconds before trying again", secs),
	})
}
