package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookswap/internal/domain"
)

// Sessions issues and validates the JWT carried by the auth cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions creates a Sessions service signing with the given secret.
func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Token returns a signed JWT for the user.
func (s *Sessions) Token(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"iat":          now.Unix(),
		"exp":          now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a token string and returns the user id from
// the sub claim.
func (s *Sessions) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthenticated
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthenticated
	}

	return sub, nil
}
