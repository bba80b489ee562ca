package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Roles recognized on guard/admin tokens. GUARD covers the gate
// stations; ADMIN covers the administrative dashboard, which may also
// browse logs and issue visitor passes.
const (
	RoleGuard = "GUARD"
	RoleAdmin = "ADMIN"
)

// RequireRole returns a middleware that enforces that the
// authenticated caller has one of the specified roles, as carried in
// the JWT's "role" claim. Requests with a missing or disallowed role
// are aborted with 403 Forbidden. It assumes JWTAuth already stored
// the role in the context under "role".
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
