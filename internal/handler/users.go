package handler

import (
    "context"
    "net/http"
    "strings"
    "unicode/utf8"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/restaurant-checks/internal/model"
    "github.com/iliyamo/restaurant-checks/internal/repository"
    "github.com/iliyamo/restaurant-checks/internal/utils"
)

// UserHandler serves account registration.
type UserHandler struct {
    Users      repository.UserRepository
    BcryptCost int
}

func NewUserHandler(users repository.UserRepository, bcryptCost int) *UserHandler {
    if users == nil {
        panic("nil repository passed to NewUserHandler")
    }
    return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

var (
    requiredUserFields = []string{"username", "password"}
    stringUserFields   = []string{"username", "password", "firstname", "lastname"}
    trimmedUserFields  = []string{"username", "password"}
)

// sizedUserFields bounds the length of credential fields; 0 means unbounded.
var sizedUserFields = []struct {
    field    string
    min, max int
}{
    {field: "username", min: 1},
    {field: "password", min: 8, max: utils.MaxPasswordBytes},
}

// validateUserBody applies the registration rules in order and reports the
// first violation.
func validateUserBody(body map[string]interface{}) error {
    for _, f := range requiredUserFields {
        if _, ok := body[f]; !ok {
            return newValidationError(f, "Missing '%s' in request body", f)
        }
    }
    for _, f := range stringUserFields {
        if v, ok := body[f]; ok {
            if _, isString := v.(string); !isString {
                return newValidationError(f, "Field: '%s' must be type String", f)
            }
        }
    }
    for _, f := range trimmedUserFields {
        s := body[f].(string)
        if strings.TrimSpace(s) != s {
            return newValidationError(f, "Field: '%s' cannot start or end with whitespace", f)
        }
    }
    for _, sf := range sizedUserFields {
        s := body[sf.field].(string)
        if sf.min > 0 && utf8.RuneCountInString(s) < sf.min {
            return newValidationError(sf.field, "Field: '%s' must be at least %d characters long", sf.field, sf.min)
        }
        // bcrypt limits bytes, not characters
        if sf.max > 0 && len(s) > sf.max {
            return newValidationError(sf.field, "Field: '%s' must be at most %d characters long", sf.field, sf.max)
        }
    }
    return nil
}

func optionalString(body map[string]interface{}, field string) string {
    s, _ := body[field].(string)
    return strings.TrimSpace(s)
}

// Register creates a user and answers 201 with its public fields.
func (h *UserHandler) Register(c echo.Context) error {
    body := map[string]interface{}{}
    if err := bindBody(c, &body); err != nil {
        return err
    }
    if err := validateUserBody(body); err != nil {
        return err
    }

    hash, err := utils.HashPassword(body["password"].(string), h.BcryptCost)
    if err != nil {
        return err
    }
    u := &model.User{
        Username:     body["username"].(string),
        PasswordHash: hash,
        FirstName:    optionalString(body, "firstname"),
        LastName:     optionalString(body, "lastname"),
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    if err := h.Users.Create(ctx, u); err != nil {
        if errors.Is(err, repository.ErrUsernameTaken) {
            return echo.NewHTTPError(http.StatusBadRequest, "The username already exists")
        }
        return err
    }

    c.Response().Header().Set(echo.HeaderLocation, strings.TrimSuffix(c.Request().URL.Path, "/")+"/"+u.ID.Hex())
    return c.JSON(http.StatusCreated, toUserResp(*u))
}
