// Package auth issues and verifies the signed identity assertions that
// authenticated requests carry as bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vasapolrittideah/minishop-api/shared/apperror"
)

// TokenLifetime bounds every issued assertion.
const TokenLifetime = time.Hour

// Claims are the registered claims embedded in an identity assertion. The
// subject is the provider-issued identifier of the user.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed, time-bounded identity
// assertions with a process-wide secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue produces a signed assertion binding the given subject, expiring
// TokenLifetime after issuance.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperror.NewSystem("failed to sign token", err)
	}

	return tokenStr, nil
}

// Verify validates an assertion and returns its subject. A missing token is
// an access error, an expired one is an access error, and any structural or
// signature fault is an input error.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", apperror.NewAccess("no token provided")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.NewAccess("token expired")
		}

		return "", apperror.NewInput("invalid token")
	}

	if !token.Valid || claims.Subject == "" {
		return "", apperror.NewInput("invalid token")
	}

	return claims.Subject, nil
}
