package utils // package utils provides helper functions for token creation and hashing

import (
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
    "github.com/pkg/errors"

    "github.com/iliyamo/restaurant-checks/internal/model"
)

// ErrInvalidToken is returned by ParseAuthToken for any token that is
// malformed, expired, signed with another key or another algorithm.
var ErrInvalidToken = errors.New("invalid token")

// TokenUser is the public part of a user embedded in every auth token.
type TokenUser struct {
    ID        string `json:"id"`
    Username  string `json:"username"`
    FirstName string `json:"firstname,omitempty"`
    LastName  string `json:"lastname,omitempty"`
}

// Claims is the payload of an auth token: the user plus the registered
// claims (sub = username, exp, iat).
type Claims struct {
    User TokenUser `json:"user"`
    jwt.RegisteredClaims
}

// AuthToken is a signed JWT together with its expiry.
type AuthToken struct {
    Token string
    Exp   time.Time
}

// NewAuthToken builds and signs an HS256 JWT for u that expires after ttl.
func NewAuthToken(secret string, u TokenUser, ttl time.Duration) (AuthToken, error) {
    issued := time.Now().UTC()
    exp := issued.Add(ttl)
    claims := Claims{
        User: u,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   u.Username,
            IssuedAt:  jwt.NewNumericDate(issued),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AuthToken{}, errors.Wrap(err, "sign token")
    }
    return AuthToken{Token: signed, Exp: exp}, nil
}

// ParseAuthToken verifies raw with secret and returns its claims.  Only HS256
// is accepted.
func ParseAuthToken(secret, raw string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    if claims.User.ID == "" {
        return nil, ErrInvalidToken
    }
    return claims, nil
}

// TokenUserFrom copies the public fields of u.
func TokenUserFrom(u model.User) TokenUser {
    return TokenUser{
        ID:        u.ID.Hex(),
        Username:  u.Username,
        FirstName: u.FirstName,
        LastName:  u.LastName,
    }
}
