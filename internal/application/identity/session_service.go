package identity

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/retaildash/backend/internal/domain/session"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// lockStripes bounds the number of mutexes guarding load-modify-save cycles
const lockStripes = 64

// PolicyFromConfig builds the gate policy, keeping defaults for unset values
func PolicyFromConfig(cfg config.SessionConfig) session.Policy {
	policy := session.DefaultPolicy()
	if cfg.IdleTimeout > 0 {
		policy.IdleTimeout = cfg.IdleTimeout
	}
	if cfg.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.WarnFrom > 0 {
		policy.WarnFrom = cfg.WarnFrom
	}
	if cfg.FirstLockout > 0 {
		policy.FirstLockout = cfg.FirstLockout
	}
	if cfg.RepeatLockout > 0 {
		policy.RepeatLockout = cfg.RepeatLockout
	}
	return policy
}

// SessionService runs the password gate for each client against the
// persisted gate state
type SessionService struct {
	store    session.Store
	verifier session.PasswordVerifier
	policy   session.Policy
	clock    session.Clock
	logger   *zap.Logger
	locks    [lockStripes]sync.Mutex
}

// NewSessionService creates a new session service
func NewSessionService(
	store session.Store,
	verifier session.PasswordVerifier,
	policy session.Policy,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		store:    store,
		verifier: verifier,
		policy:   policy,
		clock:    session.SystemClock{},
		logger:   logger,
	}
}

// SetClock replaces the wall clock
func (s *SessionService) SetClock(clock session.Clock) {
	s.clock = clock
}

// Policy returns the active gate policy
func (s *SessionService) Policy() session.Policy {
	return s.policy
}

// Login submits a password for the client.
// The result is returned together with INVALID_PASSWORD and ACCOUNT_LOCKED
// errors so callers can show the remaining attempts or the countdown.
func (s *SessionService) Login(ctx context.Context, input LoginInput) (*SessionResult, error) {
	var (
		out       session.Outcome
		submitErr error
	)
	err := s.withGuard(ctx, input.ClientID, func(g *session.Guard) {
		out, submitErr = g.Submit(input.Password, s.verifier)
	})
	if err != nil {
		return nil, err
	}

	result := toSessionResult(out, s.policy)
	switch {
	case submitErr == nil:
		s.logger.Info("session opened",
			zap.String("client_id", input.ClientID),
			zap.String("ip", input.IP))
	case errors.Is(submitErr, shared.ErrAccountLocked):
		s.logger.Warn("login rejected, client locked out",
			zap.String("client_id", input.ClientID),
			zap.String("ip", input.IP),
			zap.Int("remaining_seconds", result.RemainingSeconds))
	default:
		s.logger.Warn("invalid password attempt",
			zap.String("client_id", input.ClientID),
			zap.String("ip", input.IP),
			zap.Int("attempts_remaining", result.AttemptsRemaining))
	}
	return result, submitErr
}

// Status reports the gate state, applying idle expiry and lockout end
func (s *SessionService) Status(ctx context.Context, clientID string) (*SessionResult, error) {
	var out session.Outcome
	if err := s.withGuard(ctx, clientID, func(g *session.Guard) {
		out = g.Status()
	}); err != nil {
		return nil, err
	}
	return toSessionResult(out, s.policy), nil
}

// Touch records activity for a logged-in client and returns
// ErrSessionExpired when the client has no live session
func (s *SessionService) Touch(ctx context.Context, clientID string) error {
	var alive bool
	if err := s.withGuard(ctx, clientID, func(g *session.Guard) {
		alive = g.Touch()
	}); err != nil {
		return err
	}
	if !alive {
		return session.ErrSessionExpired
	}
	return nil
}

// Logout ends the client's session. Lockout history is kept.
func (s *SessionService) Logout(ctx context.Context, clientID string) error {
	if err := s.withGuard(ctx, clientID, func(g *session.Guard) {
		g.Logout()
	}); err != nil {
		return err
	}
	s.logger.Info("session closed", zap.String("client_id", clientID))
	return nil
}

// withGuard loads the client's state, applies fn and stores the result
func (s *SessionService) withGuard(ctx context.Context, clientID string, fn func(g *session.Guard)) error {
	mu := s.lockFor(clientID)
	mu.Lock()
	defer mu.Unlock()

	state, err := s.store.Load(ctx, clientID)
	if err != nil {
		s.logger.Error("failed to load session state", zap.String("client_id", clientID), zap.Error(err))
		return err
	}
	g := session.NewGuard(state, s.policy, s.clock)
	fn(g)
	if err := s.store.Save(ctx, clientID, g.Snapshot()); err != nil {
		s.logger.Error("failed to save session state", zap.String("client_id", clientID), zap.Error(err))
		return err
	}
	return nil
}

func (s *SessionService) lockFor(clientID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return &s.locks[h.Sum32()%lockStripes]
}
