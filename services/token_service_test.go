package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmik/auth-service/domain"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestTokenServiceExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue("user-42")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenServiceWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Issue("user-42")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenSignatureInvalid)
}

func TestTokenServiceMalformed(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, domain.ErrTokenMalformed, "input %q", raw)
	}
}

func TestTokenServiceDecodeIgnoresSignature(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Issue("user-42")
	require.NoError(t, err)

	// A verifier with another secret rejects the token...
	other := NewTokenService("secret-b", time.Hour)
	_, err = other.Verify(token)
	require.Error(t, err)

	// ...but Decode still exposes the claims.
	claims, err := other.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
}

func TestTokenServiceDecodeExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)
	token, err := svc.Issue("user-42")
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))

	_, err = svc.Decode("not-a-token")
	assert.True(t, errors.Is(err, domain.ErrTokenMalformed))
}
