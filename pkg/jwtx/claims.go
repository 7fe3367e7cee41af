package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrNoExpiry   = errors.New("jwtx: token has no exp claim")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrNotYetUsed = errors.New("jwtx: token not yet valid")
)

// Claims are the access-token claims the portal cares about. The backend
// owns the signing keys, so the client never verifies them, it only reads
// them.
type Claims struct {
	jwt.RegisteredClaims

	// Roles granted to the subject, when the backend embeds them.
	Roles []string `json:"roles,omitempty"`

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`
}

// DecodeUnverified parses the payload of a compact JWT without checking its
// signature. It fails when the token is not a three-segment JWS or when the
// payload is not valid JSON.
func DecodeUnverified(token string) (Claims, error) {
	var c Claims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &c); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return c, nil
}

// Expiry returns the exp claim.
func (c *Claims) Expiry() (time.Time, error) {
	if c.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return c.ExpiresAt.Time, nil
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetUsed
	}

	return nil
}
