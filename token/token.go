// Package token issues and verifies the signed bearer tokens that resolve a
// caller's identity, and hashes credentials at rest.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/surveyforge/surveyforge/apperr"
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Service struct {
	signingKey []byte
	ttl        time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(secret),
		ttl:        ttl,
	}
}

// Issue signs a token identifying username, valid for the configured TTL.
func (s *Service) Issue(username string) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Verify resolves the username carried by a signed token. Any parse,
// signature or expiry failure is reported as an authentication error.
func (s *Service) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", apperr.Authentication("Invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Username == "" {
		return "", apperr.Authentication("Invalid token")
	}
	return claims.Username, nil
}

// HashPassword salts and hashes a plaintext credential for storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword compares a stored hash with a login attempt.
func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
