package services

import (
	"fmt"
	"time"

	"dating-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 7 * 24 * time.Hour

// TokenClaims are the facts asserted about an identity inside a signed
// token: subject (member id), username and the member's roles.
type TokenClaims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
}

// TokenService mints and verifies signed identity assertions. The key is
// loaded once at startup and never logged.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a new token service
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue mints a token for a member with a fixed 7-day expiry
func (s *TokenService) Issue(memberID, username string, roles []string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Username: username,
		Roles:    roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks a presented token and returns the identity it asserts.
// Tokens signed with a different key or algorithm, and expired tokens,
// are rejected.
func (s *TokenService) Verify(tokenString string) (models.Identity, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token")
	}

	return models.Identity{
		ID:       claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
	}, nil
}
