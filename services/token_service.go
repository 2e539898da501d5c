package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/velmik/auth-service/domain"
)

// SessionClaims are the claims carried by a session token: subject (user ID),
// issued-at and expiry.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenService mints and validates the signed bearer tokens handed out at
// login. Tokens are HS256 JWTs signed with a process-wide secret; rotating
// the secret invalidates every outstanding token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured session lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue produces a compact signed token for the given user.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the claims. Failures are
// mapped onto the domain token errors.
func (s *TokenService) Verify(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		default:
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
		}
	}
	if !token.Valid {
		return nil, domain.ErrTokenSignatureInvalid
	}
	return claims, nil
}

// Decode parses the claims without checking the signature. The logout path
// uses it: only the expiry is needed there to size the denylist TTL, and the
// token may already be expired.
func (s *TokenService) Decode(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}
