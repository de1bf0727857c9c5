package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/appliance-portal/internal/api/middleware"
	"github.com/esop/appliance-portal/internal/core/domain"
)

// currentUser extracts the identity bound by the Authenticate middleware.
// A missing identity means the route was wired without the middleware;
// fail closed with 401 rather than proceeding anonymously.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
