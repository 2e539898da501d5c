package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/velmik/auth-service/cache"
	"github.com/velmik/auth-service/domain"
)

// mailTimeout bounds a single fire-and-forget delivery attempt.
const mailTimeout = 15 * time.Second

// AuthService orchestrates signup, login, logout, current-user lookup and
// the password-reset flow. All collaborators are injected, so tests can
// substitute in-memory fakes.
type AuthService struct {
	users    domain.UserRepository
	hasher   PasswordHasher
	tokens   *TokenService
	denylist cache.Denylist
	resets   *ResetTokenService
	mailer   Mailer
	baseURL  string
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users domain.UserRepository,
	hasher PasswordHasher,
	tokens *TokenService,
	denylist cache.Denylist,
	resets *ResetTokenService,
	mailer Mailer,
	baseURL string,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		resets:   resets,
		mailer:   mailer,
		baseURL:  baseURL,
	}
}

// SignupParams carries the signup request fields.
type SignupParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Signup registers a new user. The existence check is advisory; the unique
// index on email is what actually wins a race between concurrent signups.
// The registration notice is sent fire-and-forget: a delivery failure does
// not roll back the created user.
func (s *AuthService) Signup(ctx context.Context, p SignupParams) (*domain.User, error) {
	_, err := s.users.GetUserByEmail(ctx, p.Email)
	if err == nil {
		return nil, domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: passwordHash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("userID", user.ID).Str("email", user.Email).Msg("user registered")
	s.sendAsync(user.Email, registrationSubject, registrationBody(user))

	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		log.Warn().Str("userID", user.ID).Msg("login: incorrect password")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	log.Info().Str("userID", user.ID).Msg("user logged in")
	return token, nil
}

// Logout denylists the presented token for exactly its remaining lifetime.
// The claims are decoded without a signature re-check; only the expiry is
// needed here. Tokens already past expiry are a no-op.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.Decode(rawToken)
	if err != nil {
		return err
	}
	if claims.ExpiresAt == nil {
		return domain.ErrTokenMalformed
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.denylist.Revoke(ctx, rawToken, ttl); err != nil {
		return err
	}

	log.Info().Str("userID", claims.Subject).Msg("user logged out")
	return nil
}

// CurrentUser resolves the authenticated subject to its user record.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// ForgotPassword issues a reset token and emails the reset link. Unlike the
// other notifications the send is awaited: the user depends on receiving the
// link, so a delivery failure is surfaced as an error.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.resets.Issue(ctx, user)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)
	if err := s.mailer.Send(ctx, user.Email, resetSubject, resetBody(resetURL)); err != nil {
		log.Error().Err(err).Str("userID", user.ID).Msg("failed to send reset email")
		return fmt.Errorf("send reset email: %w", err)
	}

	log.Info().Str("userID", user.ID).Msg("reset link sent")
	return nil
}

// ResetPassword consumes the reset token and updates the password. The
// confirmation email is fire-and-forget.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.resets.Consume(ctx, token, newPassword)
	if err != nil {
		return err
	}

	log.Info().Str("userID", user.ID).Msg("password reset")
	s.sendAsync(user.Email, confirmationSubject, confirmationBody(user))

	return nil
}

// sendAsync hands a notification to the mailer without awaiting the outcome.
// Failures are logged, never surfaced to the request that triggered them.
func (s *AuthService) sendAsync(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, to, subject, body); err != nil {
			log.Error().Err(err).Str("subject", subject).Msg("failed to send notification email")
		}
	}()
}
