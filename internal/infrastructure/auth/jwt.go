package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/infrastructure/config"
)

// DefaultClientTokenLifetime is how long a browser keeps its client identity
const DefaultClientTokenLifetime = 30 * 24 * time.Hour

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingClientID  = errors.New("missing client_id in claims")
)

// ClientClaims identifies one browser. The gate state of the browser is
// stored server-side under ClientID; the token carries no session data.
type ClientClaims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
}

// ClientToken is a signed client identity ready to be set as a cookie
type ClientToken struct {
	Value     string
	ClientID  string
	ExpiresAt time.Time
}

// ClientTokenService issues and validates client identity tokens
type ClientTokenService struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

// NewClientTokenService creates a token service from the session configuration
func NewClientTokenService(cfg config.SessionConfig) *ClientTokenService {
	return &ClientTokenService{
		secret:   []byte(cfg.TokenSecret),
		issuer:   cfg.TokenIssuer,
		lifetime: DefaultClientTokenLifetime,
		now:      time.Now,
	}
}

// Issue creates a token for a fresh client id
func (s *ClientTokenService) Issue() (*ClientToken, error) {
	return s.IssueFor(uuid.New().String())
}

// IssueFor signs a token for an existing client id
func (s *ClientTokenService) IssueFor(clientID string) (*ClientToken, error) {
	now := s.now()
	expiresAt := now.Add(s.lifetime)
	claims := &ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   clientID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		ClientID: clientID,
	}

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &ClientToken{Value: value, ClientID: clientID, ExpiresAt: expiresAt}, nil
}

// Validate checks the signature and lifetime of a token and returns its claims
func (s *ClientTokenService) Validate(tokenString string) (*ClientClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ClientClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ClientClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.ClientID == "" {
		return nil, ErrMissingClientID
	}
	return claims, nil
}

// NeedsRenewal reports whether less than half of the token lifetime is left
func (s *ClientTokenService) NeedsRenewal(claims *ClientClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Sub(s.now()) < s.lifetime/2
}

// Lifetime returns how long issued tokens are valid
func (s *ClientTokenService) Lifetime() time.Duration {
	return s.lifetime
}
