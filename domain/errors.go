package domain

import "errors"

var (
	// ErrEmailTaken is returned when a signup collides with an existing email.
	ErrEmailTaken = errors.New("email already in use")

	// ErrUserNotFound is returned on any user lookup miss.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenRevoked is returned for tokens found on the denylist.
	ErrTokenRevoked = errors.New("token is blacklisted")

	// ErrResetTokenInvalid covers unknown, already consumed and expired
	// reset tokens alike.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")

	// ErrStoreUnavailable wraps connectivity failures of the document or
	// revocation store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
