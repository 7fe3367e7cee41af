package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tutorship/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func mint(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	// Signed with a throwaway key, decoding must not care.
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-server-key"))
	require.NoError(t, err)
	return tok
}

func TestDecodeUnverified(t *testing.T) {
	exp := time.Unix(1900000000, 0).UTC()

	tok := mint(t, jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Roles: []string{"student", "admin"},
		Email: "ada@example.edu",
	})

	c, err := jwtx.DecodeUnverified(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, []string{"student", "admin"}, c.Roles)
	require.Equal(t, "ada@example.edu", c.Email)

	got, err := c.Expiry()
	require.NoError(t, err)
	require.True(t, exp.Equal(got))
}

func TestDecodeUnverifiedMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "a.b", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.sig"} {
		_, err := jwtx.DecodeUnverified(in)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "input %q", in)
	}
}

func TestExpiryMissing(t *testing.T) {
	c, err := jwtx.DecodeUnverified(mint(t, jwt.RegisteredClaims{Subject: "x"}))
	require.NoError(t, err)

	_, err = c.Expiry()
	require.ErrorIs(t, err, jwtx.ErrNoExpiry)
}

func TestValidateExpiryWithLeeway(t *testing.T) {
	now := time.Now().UTC()
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-5 * time.Second)),
		},
	}

	require.ErrorIs(t, c.ValidateExpiryWithLeeway(now, 0), jwtx.ErrExpired)
	require.NoError(t, c.ValidateExpiryWithLeeway(now, 10*time.Second))

	c.NotBefore = jwt.NewNumericDate(now.Add(time.Minute))
	c.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))
	require.ErrorIs(t, c.ValidateExpiryWithLeeway(now, time.Second), jwtx.ErrNotYetUsed)
}
