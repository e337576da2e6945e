package handler

import (
    "context"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/restaurant-checks/internal/repository"
)

// invalidField is the 400 returned for any malformed or unknown identifier.
func invalidField(field string) *echo.HTTPError {
    return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("The `%s` is not valid", field))
}

// parseID accepts a 24 character hex identifier.  raw may be anything decoded
// from a JSON body; only strings can be identifiers.
func parseID(field string, raw interface{}) (primitive.ObjectID, error) {
    s, ok := raw.(string)
    if !ok {
        return primitive.NilObjectID, invalidField(field)
    }
    id, err := primitive.ObjectIDFromHex(s)
    if err != nil {
        return primitive.NilObjectID, invalidField(field)
    }
    return id, nil
}

// validateTableID checks that raw names an existing table.  An absent value
// passes: presence is the caller's concern.
func validateTableID(ctx context.Context, tables repository.TableRepository, raw interface{}) error {
    if raw == nil || raw == "" {
        return nil
    }
    id, err := parseID("tableId", raw)
    if err != nil {
        return err
    }
    n, err := tables.CountByID(ctx, id)
    if err != nil {
        return err
    }
    if n == 0 {
        return invalidField("tableId")
    }
    return nil
}

// missing reports whether a decoded JSON value would count as not provided:
// absent, null, false, zero or the empty string.
func missing(v interface{}) bool {
    switch t := v.(type) {
    case nil:
        return true
    case string:
        return t == ""
    case bool:
        return !t
    case float64:
        return t == 0
    }
    return false
}

// bindBody decodes the JSON request body into dst.  An empty body, or one in a
// media type the binder does not read, leaves dst untouched so the handler
// reports the missing fields.
func bindBody(c echo.Context, dst interface{}) error {
    if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
        if errors.Is(err, echo.ErrUnsupportedMediaType) {
            return nil
        }
        return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
    }
    return nil
}
