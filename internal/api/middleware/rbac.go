package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medivault/clinical-portal/internal/api/metrics"
	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// RBAC enforces role-based access control. A user whose role is not in
// allowedRoles gets a 403 and the denial is written to the audit trail,
// exactly once per request.
func RBAC(audit ports.AuditSink, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(UserContextKey).(*domain.User)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			if _, ok := allowed[user.Role]; !ok {
				audit.Record(
					fmt.Sprintf("unauthorized access attempt by user=%s role=%s to %s",
						user.Username, user.Role, c.Request().URL.Path),
					domain.AuditWarning,
				)
				metrics.AccessDeniedTotal.WithLabelValues(user.Role).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
