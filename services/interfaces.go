package services

import "context"

// PasswordHasher defines an interface for hashing and verifying passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) error
}

// Mailer delivers a single outbound notification. Implementations are
// expected to be safe for concurrent use; callers decide whether the
// outcome is awaited.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
