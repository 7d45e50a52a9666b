package middleware // reusable HTTP middleware shared by all protected routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Salaheddine-dev01/factory/internal/utils"
)

// Context keys under which the authenticated identity is stored.  Handlers
// read these via c.Get(); the helpers below keep the type assertions in
// one place.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxFullName = "full_name"
)

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and injects the decoded identity into the request context.  The secret
// must match the one used when issuing tokens.  This middleware performs
// pure verification: it never touches the data store.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The header must carry exactly "Bearer <token>".
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			ident, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}

			c.Set(CtxUserID, ident.ID)
			c.Set(CtxUsername, ident.Username)
			c.Set(CtxRole, ident.Role)
			c.Set(CtxFullName, ident.FullName)
			return next(c)
		}
	}
}

// Username returns the authenticated caller's username, or "" when no
// identity is attached (route not behind JWTAuth).
func Username(c echo.Context) string {
	if s, ok := c.Get(CtxUsername).(string); ok {
		return s
	}
	return ""
}

// Role returns the authenticated caller's role, or "".
func Role(c echo.Context) string {
	if s, ok := c.Get(CtxRole).(string); ok {
		return s
	}
	return ""
}
