// Package auth resolves the caller from an access token and guards staff routes.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/access"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/tokens"
)

const principalKey = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (access.Principal, error)
}

// AccessToken reads the bearer token, falling back to the access cookie.
func AccessToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > len("Bearer ") && strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if ck, err := c.Cookie(tokens.AccessCookie); err == nil {
		return ck.Value
	}
	return ""
}

func RequireLogin(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			raw := AccessToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			p, err := a.Authenticate(ctx, raw)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					l.Warn("auth_error", "status", 401, "error", err)
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
				}
				l.Error("auth_error", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			c.Set(principalKey, p)
			l = l.With("user_id", p.UserID, "role", p.Role.String())
			c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
			return next(c)
		}
	}
}

// RequireStaff admits administrators and managers. It must run after RequireLogin.
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := Principal(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if !p.CanManageStaff() {
			logging.FromContext(c.Request().Context()).Warn("auth_error", "status", 403, "reason", "staff only")
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}

func Principal(c echo.Context) (access.Principal, bool) {
	p, ok := c.Get(principalKey).(access.Principal)
	return p, ok
}
