package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/velmik/auth-service/domain"
)

// resetTokenBytes is the entropy of a reset token; 20 random bytes encoded
// as 40 hex characters.
const resetTokenBytes = 20

// ResetTokenService issues and consumes single-use, time-limited password
// reset tokens. The token lives on the user record; issuing a new one
// overwrites (and thereby invalidates) the previous one.
type ResetTokenService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	ttl    time.Duration
}

// NewResetTokenService creates a new ResetTokenService instance.
func NewResetTokenService(users domain.UserRepository, hasher PasswordHasher, ttl time.Duration) *ResetTokenService {
	return &ResetTokenService{
		users:  users,
		hasher: hasher,
		ttl:    ttl,
	}
}

// Issue generates a cryptographically random token, persists it with its
// expiry on the user record and returns it.
func (s *ResetTokenService) Issue(ctx context.Context, user *domain.User) (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	expiresAt := time.Now().UTC().Add(s.ttl)
	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// Consume validates the token, hashes the new password and atomically swaps
// it in while clearing the reset fields. A consumed or expired token yields
// domain.ErrResetTokenInvalid; so does any later replay of the same token.
func (s *ResetTokenService) Consume(ctx context.Context, token, newPassword string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrResetTokenInvalid
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash new password: %w", err)
	}

	return s.users.ConsumeResetToken(ctx, token, time.Now().UTC(), passwordHash)
}
