package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/access"
	authmw "github.com/Skotchmaster/little_lemon/internal/middleware/auth"
	"github.com/Skotchmaster/little_lemon/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(code int, err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		return "cart is empty"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid username or password"
	case code == http.StatusBadRequest:
		return err.Error()
	case code == http.StatusUnauthorized:
		return "unauthorized"
	case code == http.StatusForbidden:
		return "not enough rights"
	case code == http.StatusNotFound:
		return "not found"
	case code == http.StatusConflict:
		return "conflict, please retry"
	default:
		return "internal error"
	}
}

// fail logs err under event and turns it into an HTTP error response.
func fail(l *slog.Logger, event string, err error) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "error", err)
	}
	return echo.NewHTTPError(code, messageFor(code, err))
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(id), nil
}

func principal(c echo.Context) (access.Principal, error) {
	p, ok := authmw.Principal(c)
	if !ok {
		return p, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return p, nil
}
