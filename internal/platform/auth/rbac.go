package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

// RequireRole returns middleware that admits only admin sessions holding at
// least one of the given roles. Managers pass every role check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if ActorFromContext(ctx) != ActorAdmin {
				return httpx.Unauthenticated("admin session required")
			}
			has := RoleFromContext(ctx)
			if has == RoleManager {
				return next(c)
			}
			for _, required := range roles {
				if has == required {
					return next(c)
				}
			}
			return httpx.Permission("required role: %s", strings.Join(roles, " or "))
		}
	}
}

// RequireHospital returns middleware that admits only hospital sessions.
func RequireHospital() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ActorFromContext(c.Request().Context()) != ActorHospital {
				return httpx.Unauthenticated("hospital session required")
			}
			return next(c)
		}
	}
}
