package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/retaildash/backend/internal/domain/session"
	"github.com/retaildash/backend/internal/infrastructure/config"
	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier checks passwords against a bcrypt hash
type BcryptVerifier struct {
	hash []byte
}

// NewBcryptVerifier creates a verifier for the given hash
func NewBcryptVerifier(hash string) (*BcryptVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &BcryptVerifier{hash: []byte(hash)}, nil
}

// Verify returns true when password matches the hash
func (v *BcryptVerifier) Verify(password string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
}

// PlainVerifier compares against a plain password in constant time.
// Only used outside production.
type PlainVerifier struct {
	password []byte
}

// Verify returns true when password equals the configured one
func (v *PlainVerifier) Verify(password string) bool {
	return subtle.ConstantTimeCompare(v.password, []byte(password)) == 1
}

var (
	_ session.PasswordVerifier = (*BcryptVerifier)(nil)
	_ session.PasswordVerifier = (*PlainVerifier)(nil)
)

// NewPasswordVerifier picks the verifier from configuration, preferring the hash
func NewPasswordVerifier(cfg config.SessionConfig) (session.PasswordVerifier, error) {
	if cfg.PasswordHash != "" {
		return NewBcryptVerifier(cfg.PasswordHash)
	}
	if cfg.Password != "" {
		return &PlainVerifier{password: []byte(cfg.Password)}, nil
	}
	return nil, errors.New("session.password_hash or session.password must be set")
}

// HashPassword hashes a password for the session.password_hash setting
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
