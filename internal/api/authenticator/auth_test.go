package authenticator

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorell/atelier/internal/config"
)

func newTestAuthenticator(t *testing.T, secret string) *Authenticator {
	t.Helper()

	a, err := New(&config.Config{JWT_SECRET: secret})
	require.NoError(t, err)
	return a
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(&config.Config{})
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")

	token, err := a.GenerateToken("user-123", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthenticator(t, "secret-one")
	verifier := newTestAuthenticator(t, "secret-two")

	token, err := issuer.GenerateToken("user-123", "user@example.com")
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "atelier",
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	})

	token, err := expired.SignedString(a.jwtSecret)
	require.NoError(t, err)

	_, err = a.VerifyAccessToken(context.Background(), token)
	require.Error(t, err)
}

func TestVerifyRejectsTokenWithoutExpiry(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "user-123",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})

	token, err := noExpiry.SignedString(a.jwtSecret)
	require.NoError(t, err)

	_, err = a.VerifyAccessToken(context.Background(), token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	a := newTestAuthenticator(t, "test-secret")

	_, err := a.VerifyAccessToken(context.Background(), "not-a-jwt")
	require.Error(t, err)
}

func TestSignedStateRoundTrip(t *testing.T) {
	a := &Authenticator{stateSecret: "state-secret"}

	state := OAuthState{
		CSRF:      "csrf-value",
		Redirect:  "http://localhost:3000",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	}

	encoded, err := a.GetSignedState(state)
	require.NoError(t, err)

	decoded, err := a.VerifySignedState(encoded)
	require.NoError(t, err)
	assert.Equal(t, state.CSRF, decoded.CSRF)
	assert.Equal(t, state.Redirect, decoded.Redirect)
}

func TestSignedStateRejectsTampering(t *testing.T) {
	signer := &Authenticator{stateSecret: "state-secret"}
	other := &Authenticator{stateSecret: "different-secret"}

	encoded, err := signer.GetSignedState(OAuthState{
		CSRF:      "csrf-value",
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = other.VerifySignedState(encoded)
	require.Error(t, err)

	_, err = signer.VerifySignedState("not base64!!")
	require.Error(t, err)
}

func TestSignedStateRejectsExpired(t *testing.T) {
	a := &Authenticator{stateSecret: "state-secret"}

	encoded, err := a.GetSignedState(OAuthState{
		CSRF:      "csrf-value",
		IssuedAt:  time.Now().Add(-10 * time.Minute).Unix(),
		ExpiresAt: time.Now().Add(-5 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = a.VerifySignedState(encoded)
	require.Error(t, err)
}
