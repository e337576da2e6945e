package middleware

// identity.go holds the context keys shared across middleware and handlers.
// JWTAuth stores the authenticated caller under callerKey; RequestLogger
// stores the request id under requestIDKey.

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-checks/internal/utils"
)

const (
    callerKey    = "caller"
    requestIDKey = "request_id"
)

// Caller returns the user attached by JWTAuth.  ok is false on routes that
// are not behind the gate.
func Caller(c echo.Context) (utils.TokenUser, bool) {
    u, ok := c.Get(callerKey).(utils.TokenUser)
    return u, ok
}

// RequestID returns the id assigned by RequestLogger, or "".
func RequestID(c echo.Context) string {
    id, _ := c.Get(requestIDKey).(string)
    return id
}

// userID returns the caller id for keying, or "anon".
func userID(c echo.Context) string {
    if u, ok := Caller(c); ok && u.ID != "" {
        return u.ID
    }
    return "anon"
}
