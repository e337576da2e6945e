package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/restaurant-checks/internal/middleware"
    "github.com/iliyamo/restaurant-checks/internal/repository"
    "github.com/iliyamo/restaurant-checks/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Users     repository.UserRepository
    JWTSecret string
    TokenTTL  time.Duration
}

func NewAuthHandler(users repository.UserRepository, secret string, ttl time.Duration) *AuthHandler {
    if users == nil {
        panic("nil repository passed to NewAuthHandler")
    }
    return &AuthHandler{Users: users, JWTSecret: secret, TokenTTL: ttl}
}

// ----- DTOs -----

type loginReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

type tokenResp struct {
    AuthToken string `json:"authToken"`
}

// Login verifies username/password and returns a fresh auth token.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bindBody(c, &req); err != nil {
        return err
    }
    if req.Username == "" || req.Password == "" {
        return echo.NewHTTPError(http.StatusBadRequest, "Missing credentials")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    u, err := h.Users.GetByUsername(ctx, req.Username)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
        }
        return err
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
    }
    return h.issue(c, utils.TokenUserFrom(*u))
}

// Refresh re-issues a token for the already authenticated caller.
func (h *AuthHandler) Refresh(c echo.Context) error {
    caller, ok := middleware.Caller(c)
    if !ok {
        return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
    }
    return h.issue(c, caller)
}

func (h *AuthHandler) issue(c echo.Context, u utils.TokenUser) error {
    tok, err := utils.NewAuthToken(h.JWTSecret, u, h.TokenTTL)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, tokenResp{AuthToken: tok.Token})
}

// Protected is a probe for clients checking that their token is accepted.
func Protected(c echo.Context) error {
    return c.String(http.StatusOK, "Protected route.")
}
