// Package security resolves callers from session tokens issued by the
// identity provider
package security

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("no session token")
	ErrInvalidSession = errors.New("session token invalid")
)

// Resolver turns a request into the id of the authenticated principal
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// SessionVerifier checks HS256 session tokens. The token is read from the
// session cookie first and from a bearer Authorization header otherwise.
type SessionVerifier struct {
	secret     []byte
	cookieName string
}

func NewSessionVerifier(secret, cookieName string) *SessionVerifier {
	return &SessionVerifier{
		secret:     []byte(secret),
		cookieName: cookieName,
	}
}

func (s *SessionVerifier) Resolve(r *http.Request) (string, error) {
	tokenStr := s.tokenFrom(r)
	if tokenStr == "" {
		return "", ErrNoSession
	}

	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w, %w", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidSession
	}

	return claims.Subject, nil
}

func (s *SessionVerifier) tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}

	return ""
}
