package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/appliance-portal/internal/api/metrics"
	"github.com/esop/appliance-portal/internal/core/domain"
)

// allow is the authorization predicate: it decides whether the identity may
// act at the required role. Kept separate from the middleware so the rule is
// one readable expression.
func allow(user *domain.User, required domain.Role) bool {
	if user == nil {
		return false
	}
	if required == domain.RoleAdmin {
		return user.IsAdmin()
	}
	return true
}

// RequireRole rejects the request with 403 unless the authenticated user
// satisfies the required role. Must run after Authenticate.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allow(CurrentUser(c), required) {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}

// RequireAdmin is shorthand for RequireRole(domain.RoleAdmin).
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
