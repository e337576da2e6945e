package handler

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/restaurant-checks/internal/repository"
)

// errorResp is the body of every error response.
type errorResp struct {
    Status   int    `json:"status"`
    Reason   string `json:"reason,omitempty"`
    Message  string `json:"message"`
    Location string `json:"location,omitempty"`
}

// ValidationError rejects one field of a request body with 422.
type ValidationError struct {
    Field   string
    Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(field, format string, args ...interface{}) *ValidationError {
    return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// HTTPErrorHandler renders handler errors as errorResp.  Client errors keep
// their message; anything unrecognized becomes a bare 500 and is logged.
func HTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }

        resp := errorResp{Status: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
        var he *echo.HTTPError
        var ve *ValidationError
        switch {
        case errors.As(err, &ve):
            resp = errorResp{Status: http.StatusUnprocessableEntity, Reason: "ValidationError", Message: ve.Message, Location: ve.Field}
        case errors.As(err, &he):
            resp.Status = he.Code
            if msg, ok := he.Message.(string); ok {
                resp.Message = msg
            } else {
                resp.Message = http.StatusText(he.Code)
            }
        case errors.Is(err, repository.ErrCheckNotFound),
            errors.Is(err, repository.ErrTableNotFound),
            errors.Is(err, repository.ErrUserNotFound):
            resp.Status = http.StatusNotFound
            resp.Message = http.StatusText(http.StatusNotFound)
        }

        entry := log.WithError(err).WithFields(logrus.Fields{
            "method": c.Request().Method,
            "path":   c.Request().URL.Path,
            "status": resp.Status,
        })
        if resp.Status >= http.StatusInternalServerError {
            entry.Error("request failed")
        } else {
            entry.Debug("request rejected")
        }

        if c.Request().Method == http.MethodHead {
            err = c.NoContent(resp.Status)
        } else {
            err = c.JSON(resp.Status, resp)
        }
        if err != nil {
            log.WithError(err).Warn("write error response")
        }
    }
}
