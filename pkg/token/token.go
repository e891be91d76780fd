// Package token reads the admin session token issued by the CarPool backend.
//
// Tokens are decoded without signature verification: the dashboard only uses the
// payload to label requests and to tell an expired session apart, the backend stays
// the authority on access.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptyToken     = errors.New("token is empty")
	ErrMalformedToken = errors.New("token is malformed")
)

// Claims is the payload the backend puts into admin tokens.
type Claims struct {
	UserID   string `json:"id,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// DisplayName picks the most human readable identity in the payload.
func (c *Claims) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Username != "":
		return c.Username
	case c.Email != "":
		return c.Email
	default:
		return c.UserID
	}
}

var parser = jwt.NewParser()

// Decode returns the claims of raw without verifying its signature.
func Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrEmptyToken
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	return claims, nil
}

// IsExpired reports whether raw is unusable at now. Tokens that cannot be decoded
// or carry no exp claim count as expired.
func IsExpired(raw string, now time.Time) bool {
	claims, err := Decode(raw)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(now)
}
