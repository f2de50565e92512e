package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/photodish/v1/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, issuer, subject string, claims map[string]any) string {
	t.Helper()

	mapClaims := jwt.MapClaims{
		"iss": issuer,
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range claims {
		mapClaims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerify(t *testing.T) {
	verifier := NewVerifier(config.AuthConfig{JWTSecret: testSecret, Issuer: "photodish"})

	t.Run("ValidToken_ShouldReturnIdentity", func(t *testing.T) {
		token := signToken(t, testSecret, "photodish", "user-1", map[string]any{
			"name":    "Alex Chen",
			"email":   "alex@example.com",
			"picture": "https://example.com/alex.png",
		})

		id, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", id.UID)
		assert.Equal(t, "Alex Chen", id.DisplayName)
		assert.Equal(t, "alex@example.com", id.Email)
		assert.Equal(t, "https://example.com/alex.png", id.PhotoURL)
	})

	t.Run("WrongSecret_ShouldFail", func(t *testing.T) {
		token := signToken(t, "other-secret", "photodish", "user-1", nil)
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("WrongIssuer_ShouldFail", func(t *testing.T) {
		token := signToken(t, testSecret, "someone-else", "user-1", nil)
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("ExpiredToken_ShouldFail", func(t *testing.T) {
		claims := jwt.MapClaims{
			"iss": "photodish",
			"sub": "user-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = verifier.Verify(signed)
		assert.Error(t, err)
	})

	t.Run("MissingSubject_ShouldFail", func(t *testing.T) {
		token := signToken(t, testSecret, "photodish", "", nil)
		_, err := verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("UnconfiguredVerifier_ShouldFail", func(t *testing.T) {
		bare := NewVerifier(config.AuthConfig{})
		token := signToken(t, testSecret, "photodish", "user-1", nil)
		_, err := bare.Verify(token)
		assert.Error(t, err)
	})
}

func TestIdentityContext(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		id := &Identity{UID: "user-1"}
		ctx := WithIdentity(context.Background(), id)

		got, ok := IdentityFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("EmptyContext", func(t *testing.T) {
		_, ok := IdentityFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("NilIdentity_ShouldNotCount", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), nil)
		_, ok := IdentityFromContext(ctx)
		assert.False(t, ok)
	})
}
