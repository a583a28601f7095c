package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("m1", "anna", []string{"member", "admin"})
	require.NoError(t, err)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "m1", identity.ID)
	assert.Equal(t, "anna", identity.Username)
	assert.Equal(t, []string{"member", "admin"}, identity.Roles)
	assert.True(t, identity.HasRole("admin"))
	assert.False(t, identity.HasRole("moderator"))
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("m1", "anna", nil)
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Verify("not.a.token")
	assert.Error(t, err)

	_, err = svc.Verify("")
	assert.Error(t, err)
}

func TestTokenTamperedRejected(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("m1", "anna", nil)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Verify(tampered)
	assert.Error(t, err)
}

func TestTokenExpiresInSevenDays(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("m1", "anna", nil)
	require.NoError(t, err)

	claims := &TokenClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 7*24*time.Hour, ttl)
	assert.Equal(t, "m1", claims.Subject)
}

func TestTokenExpiredRejected(t *testing.T) {
	secret := []byte("test-secret")
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "m1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
		Username: "anna",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(token)
	assert.Error(t, err)
}
