package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/velmik/auth-service/domain"
)

const testBaseURL = "http://localhost:3000"

func newTestAuthService(
	users *MockUserRepository,
	hasher *MockPasswordHasher,
	denylist *MockDenylist,
	mailer *MockMailer,
) (*AuthService, *TokenService) {
	tokens := NewTokenService("test-secret", time.Hour)
	resets := NewResetTokenService(users, hasher, 5*time.Minute)
	return NewAuthService(users, hasher, tokens, denylist, resets, mailer, testBaseURL), tokens
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		mailer := new(MockMailer)
		svc, _ := newTestAuthService(users, hasher, new(MockDenylist), mailer)

		users.On("GetUserByEmail", ctx, "a@x.com").Return(nil, domain.ErrUserNotFound)
		hasher.On("Hash", "p1").Return("hashed-p1", nil)
		users.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
		// Registration notice is fire-and-forget; it may or may not land
		// before the test finishes.
		mailer.On("Send", mock.Anything, "a@x.com", "Registration Successful", mock.AnythingOfType("string")).
			Return(nil).Maybe()

		user, err := svc.Signup(ctx, SignupParams{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "a@x.com",
			Password:  "p1",
		})
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, "hashed-p1", user.PasswordHash)
		users.AssertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		users := new(MockUserRepository)
		svc, _ := newTestAuthService(users, new(MockPasswordHasher), new(MockDenylist), new(MockMailer))

		users.On("GetUserByEmail", ctx, "a@x.com").Return(&domain.User{ID: "u1", Email: "a@x.com"}, nil)

		_, err := svc.Signup(ctx, SignupParams{Email: "a@x.com", Password: "p1"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("DuplicateEmailLostRace", func(t *testing.T) {
		// Both requests pass the advisory check; the unique index decides.
		users := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		svc, _ := newTestAuthService(users, hasher, new(MockDenylist), new(MockMailer))

		users.On("GetUserByEmail", ctx, "a@x.com").Return(nil, domain.ErrUserNotFound)
		hasher.On("Hash", "p1").Return("hashed-p1", nil)
		users.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).Return(domain.ErrEmailTaken)

		_, err := svc.Signup(ctx, SignupParams{Email: "a@x.com", Password: "p1"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	stored := &domain.User{ID: "u1", Email: "a@x.com", PasswordHash: "hashed-p1"}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		svc, tokens := newTestAuthService(users, hasher, new(MockDenylist), new(MockMailer))

		users.On("GetUserByEmail", ctx, "a@x.com").Return(stored, nil)
		hasher.On("Verify", "hashed-p1", "p1").Return(nil)

		token, err := svc.Login(ctx, "a@x.com", "p1")
		require.NoError(t, err)

		claims, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		users := new(MockUserRepository)
		svc, _ := newTestAuthService(users, new(MockPasswordHasher), new(MockDenylist), new(MockMailer))

		users.On("GetUserByEmail", ctx, "nobody@x.com").Return(nil, domain.ErrUserNotFound)

		_, err := svc.Login(ctx, "nobody@x.com", "p1")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		users := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		svc, _ := newTestAuthService(users, hasher, new(MockDenylist), new(MockMailer))

		users.On("GetUserByEmail", ctx, "a@x.com").Return(stored, nil)
		hasher.On("Verify", "hashed-p1", "wrong").Return(assert.AnError)

		_, err := svc.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("RevokesWithRemainingTTL", func(t *testing.T) {
		denylist := new(MockDenylist)
		svc, tokens := newTestAuthService(new(MockUserRepository), new(MockPasswordHasher), denylist, new(MockMailer))

		token, err := tokens.Issue("u1")
		require.NoError(t, err)

		denylist.On("Revoke", ctx, token, mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 50*time.Minute && ttl <= time.Hour
		})).Return(nil)

		require.NoError(t, svc.Logout(ctx, token))
		denylist.AssertExpectations(t)
	})

	t.Run("MalformedToken", func(t *testing.T) {
		denylist := new(MockDenylist)
		svc, _ := newTestAuthService(new(MockUserRepository), new(MockPasswordHasher), denylist, new(MockMailer))

		err := svc.Logout(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, domain.ErrTokenMalformed)
		denylist.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		denylist := new(MockDenylist)
		svc, tokens := newTestAuthService(new(MockUserRepository), new(MockPasswordHasher), denylist, new(MockMailer))

		token, err := tokens.Issue("u1")
		require.NoError(t, err)

		denylist.On("Revoke", ctx, token, mock.Anything).Return(domain.ErrStoreUnavailable)

		assert.ErrorIs(t, svc.Logout(ctx, token), domain.ErrStoreUnavailable)
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc, _ := newTestAuthService(users, new(MockPasswordHasher), new(MockDenylist), new(MockMailer))

	stored := &domain.User{ID: "u1", Email: "a@x.com"}
	users.On("GetUserByID", ctx, "u1").Return(stored, nil)
	users.On("GetUserByID", ctx, "missing").Return(nil, domain.ErrUserNotFound)

	user, err := svc.CurrentUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, stored, user)

	_, err = svc.CurrentUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()
	stored := &domain.User{ID: "u1", Email: "a@x.com", FirstName: "Ada"}

	t.Run("SendsResetLink", func(t *testing.T) {
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		svc, _ := newTestAuthService(users, new(MockPasswordHasher), new(MockDenylist), mailer)

		var issued string
		users.On("GetUserByEmail", ctx, "a@x.com").Return(stored, nil)
		users.On("SetResetToken", ctx, "u1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) { issued = args.String(2) }).
			Return(nil)
		mailer.On("Send", ctx, "a@x.com", "Reset Password", mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, testBaseURL+"/reset-password/")
		})).Return(nil)

		require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
		require.Len(t, issued, 40, "20 random bytes, hex encoded")
		mailer.AssertExpectations(t)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		users := new(MockUserRepository)
		svc, _ := newTestAuthService(users, new(MockPasswordHasher), new(MockDenylist), new(MockMailer))

		users.On("GetUserByEmail", ctx, "nobody@x.com").Return(nil, domain.ErrUserNotFound)

		assert.ErrorIs(t, svc.ForgotPassword(ctx, "nobody@x.com"), domain.ErrUserNotFound)
	})

	t.Run("DeliveryFailureSurfaces", func(t *testing.T) {
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		svc, _ := newTestAuthService(users, new(MockPasswordHasher), new(MockDenylist), mailer)

		users.On("GetUserByEmail", ctx, "a@x.com").Return(stored, nil)
		users.On("SetResetToken", ctx, "u1", mock.Anything, mock.Anything).Return(nil)
		mailer.On("Send", ctx, "a@x.com", "Reset Password", mock.Anything).Return(assert.AnError)

		assert.Error(t, svc.ForgotPassword(ctx, "a@x.com"))
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		mailer := new(MockMailer)
		svc, _ := newTestAuthService(users, hasher, new(MockDenylist), mailer)

		hasher.On("Hash", "new-pass").Return("hashed-new", nil)
		users.On("ConsumeResetToken", ctx, "tok123", mock.AnythingOfType("time.Time"), "hashed-new").
			Return(&domain.User{ID: "u1", Email: "a@x.com", FirstName: "Ada"}, nil)
		mailer.On("Send", mock.Anything, "a@x.com", "Password Updated Successfully", mock.AnythingOfType("string")).
			Return(nil).Maybe()

		require.NoError(t, svc.ResetPassword(ctx, "tok123", "new-pass"))
		users.AssertExpectations(t)
	})

	t.Run("InvalidOrExpiredToken", func(t *testing.T) {
		users := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		svc, _ := newTestAuthService(users, hasher, new(MockDenylist), new(MockMailer))

		hasher.On("Hash", "new-pass").Return("hashed-new", nil)
		users.On("ConsumeResetToken", ctx, "bogus", mock.Anything, "hashed-new").
			Return(nil, domain.ErrResetTokenInvalid)

		assert.ErrorIs(t, svc.ResetPassword(ctx, "bogus", "new-pass"), domain.ErrResetTokenInvalid)
	})
}
