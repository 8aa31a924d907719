package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/synvoy/backend/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the subject user id and email into the request context under
// "user_id" (uint64) and "email" (string). The provided secret must match
// the one used when issuing tokens. Missing, malformed, tampered and
// expired tokens all produce the same 401 response; no detail about the
// failure is leaked to the caller.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, ok := utils.VerifyAccessToken(secret, raw)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			uid, ok := utils.SubjectID(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			c.Set("user_id", uid)
			if email, ok := claims["email"].(string); ok {
				c.Set("email", email)
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated user's id from the context. It returns
// false when the request did not pass through JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	uid, ok := c.Get("user_id").(uint64)
	return uid, ok
}
