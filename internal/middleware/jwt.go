package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/restaurant-checks/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer auth token and
// injects the token's user into the request context.  The provided secret
// must match the one used when issuing tokens.  Requests without a valid
// token stop here with 401; handlers behind the gate can rely on Caller.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

            claims, err := utils.ParseAuthToken(secret, raw)
            if err != nil {
                return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
            }
            c.Set(callerKey, claims.User)
            return next(c)
        }
    }
}
