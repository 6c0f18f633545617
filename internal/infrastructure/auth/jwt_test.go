package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/retaildash/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *ClientTokenService {
	return NewClientTokenService(config.SessionConfig{
		TokenSecret: "test-secret-key-at-least-32-chars",
		TokenIssuer: "test-issuer",
	})
}

func TestClientTokenService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Issue()
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.NotEmpty(t, token.ClientID)
	assert.WithinDuration(t, time.Now().Add(DefaultClientTokenLifetime), token.ExpiresAt, time.Second)

	claims, err := svc.Validate(token.Value)
	require.NoError(t, err)
	assert.Equal(t, token.ClientID, claims.ClientID)
	assert.Equal(t, token.ClientID, claims.Subject)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestClientTokenService_IssueFor(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueFor("client-42")
	require.NoError(t, err)

	claims, err := svc.Validate(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "client-42", claims.ClientID)
}

func TestClientTokenService_Validate_Errors(t *testing.T) {
	svc := newTestTokenService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewClientTokenService(config.SessionConfig{
			TokenSecret: "another-secret-key-at-least-32-ch",
			TokenIssuer: "test-issuer",
		})
		token, err := other.Issue()
		require.NoError(t, err)

		_, err = svc.Validate(token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewClientTokenService(config.SessionConfig{
			TokenSecret: "test-secret-key-at-least-32-chars",
			TokenIssuer: "someone-else",
		})
		token, err := other.Issue()
		require.NoError(t, err)

		_, err = svc.Validate(token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		issuer := newTestTokenService()
		issuer.now = func() time.Time { return time.Now().Add(-2 * DefaultClientTokenLifetime) }
		token, err := issuer.Issue()
		require.NoError(t, err)

		_, err = svc.Validate(token.Value)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		issuer := newTestTokenService()
		issuer.now = func() time.Time { return time.Now().Add(time.Hour) }
		token, err := issuer.Issue()
		require.NoError(t, err)

		_, err = svc.Validate(token.Value)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		claims := &ClientClaims{ClientID: "x"}
		claims.Issuer = "test-issuer"
		value, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing client id", func(t *testing.T) {
		token, err := svc.IssueFor("")
		require.NoError(t, err)

		_, err = svc.Validate(token.Value)
		assert.ErrorIs(t, err, ErrMissingClientID)
	})
}

func TestClientTokenService_NeedsRenewal(t *testing.T) {
	svc := newTestTokenService()
	now := time.Now()
	svc.now = func() time.Time { return now }

	fresh := &ClientClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(svc.Lifetime()))}}
	old := &ClientClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}

	assert.False(t, svc.NeedsRenewal(fresh))
	assert.True(t, svc.NeedsRenewal(old))
	assert.True(t, svc.NeedsRenewal(&ClientClaims{}))
}
