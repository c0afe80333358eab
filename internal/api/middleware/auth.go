package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medivault/clinical-portal/internal/core/ports"
)

// SessionCookieName is the cookie carrying the signed session blob.
const SessionCookieName = "portal_session"

// UserContextKey is where Auth stores the authenticated *domain.User.
const UserContextKey = "current_user"

// Auth validates the session cookie and injects the authenticated user
// into the request context. Anonymous or stale sessions get a plain 401;
// they are not audited, only authenticated-but-denied access is.
func Auth(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			user, err := sessions.Validate(c.Request().Context(), cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired or invalid")
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
