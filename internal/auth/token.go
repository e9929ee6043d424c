// internal/auth/token.go
//
// Verification of session tokens issued by the hosted auth provider.
//
// The provider signs HS256 JWTs with a shared secret.  `sub` identifies the
// account, `email` is copied onto the local user row on first sight.  Issue
// exists for tests and the local dev login; production tokens come from the
// provider.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned for missing, expired, or forged tokens.
var ErrUnauthorized = errors.New("unauthorized")

// Claims extends standard registered claims with the account email.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for subject.
func Issue(secret []byte, subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates token and returns its claims.  Any failure maps to
// ErrUnauthorized so callers never branch on jwt internals.
func Parse(secret []byte, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
