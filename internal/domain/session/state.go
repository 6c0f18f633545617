// Package session implements the password gate that protects the admin
// dashboard: a single shared password, lockout after repeated failures and
// logout after a period of inactivity.
package session

import (
	"context"
	"time"
)

// Persisted record keys
const (
	SessionKey   = "session"
	BlockDataKey = "passwordBlockData"
)

// SessionRecord marks a logged-in client and its last activity
type SessionRecord struct {
	Timestamp int64 `json:"timestamp"` // epoch milliseconds
}

// BlockRecord tracks failed password attempts and lockouts.
// Duration keeps the length of the last lockout after it has expired, so a
// repeat lockout can be escalated.
type BlockRecord struct {
	EndTime      int64 `json:"endTime"`  // epoch milliseconds, 0 when not locked
	Duration     int   `json:"duration"` // seconds
	AttemptCount int   `json:"attemptCount"`
}

// SessionState is everything the gate persists for one client
type SessionState struct {
	Session *SessionRecord
	Block   *BlockRecord
}

// IsZero reports whether nothing needs to be persisted
func (s SessionState) IsZero() bool {
	return s.Session == nil && s.Block == nil
}

// Store persists the gate state of each client.
// Implementations write the two records under SessionKey and BlockDataKey.
type Store interface {
	// Load returns the stored state, or a zero state for an unknown client
	Load(ctx context.Context, clientID string) (SessionState, error)

	// Save writes the state; nil records are removed
	Save(ctx context.Context, clientID string, state SessionState) error

	// Clear removes every record of the client
	Clear(ctx context.Context, clientID string) error
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

func toEpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
