package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	u := TokenUser{ID: "64b7f0c2a1b2c3d4e5f60718", Username: "waiter"}

	tok, err := NewAuthToken("secret", u, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	claims, err := ParseAuthToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, u, claims.User)
	assert.Equal(t, "waiter", claims.Subject)
}

func TestParseAuthTokenRejects(t *testing.T) {
	u := TokenUser{ID: "64b7f0c2a1b2c3d4e5f60718", Username: "waiter"}
	good, err := NewAuthToken("secret", u, time.Hour)
	require.NoError(t, err)
	expired, err := NewAuthToken("secret", u, -time.Minute)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{User: u}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	anonymous, err := NewAuthToken("secret", TokenUser{}, time.Hour)
	require.NoError(t, err)

	cases := map[string]struct{ secret, raw string }{
		"wrong secret": {"other", good.Token},
		"expired":      {"secret", expired.Token},
		"garbage":      {"secret", "not.a.token"},
		"alg none":     {"secret", noneAlg},
		"missing user": {"secret", anonymous.Token},
		"empty":        {"secret", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAuthToken(tc.secret, tc.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "password123"))
	assert.False(t, VerifyPassword(hash, "password124"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHashPasswordFallsBackToDefaultCost(t *testing.T) {
	hash, err := HashPassword("password123", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
