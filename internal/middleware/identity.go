package middleware

// identity.go defines helpers shared across middleware files: caller
// identity extraction used when building rate-limit keys.

import "github.com/labstack/echo/v4"

// callerID returns the authenticated caller's identifier from context,
// or "anon" when no token was presented. JWTAuth stores the subject
// claim under "user_id" as whatever type the token carried, so both
// the raw string and the stringer path are tried.
func callerID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
