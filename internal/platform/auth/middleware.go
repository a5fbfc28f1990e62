package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

type contextKey string

const (
	actorKey   contextKey = "auth_actor"
	subjectKey contextKey = "auth_subject"
	nameKey    contextKey = "auth_name"
	roleKey    contextKey = "auth_role"
)

// Middleware parses an optional bearer token into the request context. It
// does not reject unauthenticated requests; route guards (RequireRole,
// RequireHospital) decide what each endpoint needs. A present-but-invalid
// token is rejected immediately.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return httpx.Unauthenticated("invalid authorization format")
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				return httpx.Unauthenticated("invalid or expired token")
			}

			subject, err := uuid.Parse(claims.Subject)
			if err != nil {
				return httpx.Unauthenticated("invalid token subject")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, actorKey, claims.Actor)
			ctx = context.WithValue(ctx, subjectKey, subject)
			ctx = context.WithValue(ctx, nameKey, claims.Name)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ActorFromContext returns the authenticated actor type, or "" if anonymous.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey).(Actor)
	return actor
}

// SubjectFromContext returns the authenticated principal id.
func SubjectFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(subjectKey).(uuid.UUID)
	return id
}

// NameFromContext returns the authenticated principal's display name.
func NameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(nameKey).(string)
	return name
}

// RoleFromContext returns the admin role, or "" for hospitals and anonymous.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}
