package auth

import (
	"testing"

	"github.com/retaildash/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	v, err := NewBcryptVerifier(string(hash))
	require.NoError(t, err)

	assert.True(t, v.Verify("open-sesame"))
	assert.False(t, v.Verify("open-sesame "))
	assert.False(t, v.Verify(""))
}

func TestNewBcryptVerifier_RejectsMalformedHash(t *testing.T) {
	_, err := NewBcryptVerifier("plain-text")
	assert.Error(t, err)
}

func TestPlainVerifier(t *testing.T) {
	v := &PlainVerifier{password: []byte("letmein")}

	assert.True(t, v.Verify("letmein"))
	assert.False(t, v.Verify("letmeout"))
	assert.False(t, v.Verify("letmein!"))
}

func TestNewPasswordVerifier(t *testing.T) {
	hash, err := HashPassword("hashed")
	require.NoError(t, err)

	t.Run("prefers the hash", func(t *testing.T) {
		v, err := NewPasswordVerifier(config.SessionConfig{PasswordHash: hash, Password: "plain"})
		require.NoError(t, err)
		assert.IsType(t, &BcryptVerifier{}, v)
		assert.True(t, v.Verify("hashed"))
		assert.False(t, v.Verify("plain"))
	})

	t.Run("falls back to the plain password", func(t *testing.T) {
		v, err := NewPasswordVerifier(config.SessionConfig{Password: "plain"})
		require.NoError(t, err)
		assert.True(t, v.Verify("plain"))
	})

	t.Run("requires one of them", func(t *testing.T) {
		_, err := NewPasswordVerifier(config.SessionConfig{})
		assert.Error(t, err)
	})
}
