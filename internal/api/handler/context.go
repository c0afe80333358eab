package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medivault/clinical-portal/internal/api/middleware"
	"github.com/medivault/clinical-portal/internal/core/domain"
)

// currentUser extracts the authenticated user injected by the Auth
// middleware. Its absence means the route was registered without the
// middleware; reject with 401 rather than proceed anonymously.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}
