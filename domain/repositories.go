package domain

import (
	"context"
	"time"
)

// UserRepository is the persistence boundary for user documents.
type UserRepository interface {
	// CreateUser inserts a new user. Returns ErrEmailTaken when the email
	// is already registered.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByID returns the user with the given ID or ErrUserNotFound.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail returns the user with the given email or ErrUserNotFound.
	// Emails are matched exactly as stored.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// SetResetToken stores a reset token and its expiry on the user record,
	// overwriting any previous token.
	SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error

	// ConsumeResetToken atomically finds the user whose reset token equals
	// token and is not yet expired at now, sets the new password hash and
	// clears both reset fields. Returns ErrResetTokenInvalid when no such
	// user exists, which also makes token replay fail.
	ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) (*User, error)
}
