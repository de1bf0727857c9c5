package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/esop/appliance-portal/internal/api/metrics"
	"github.com/esop/appliance-portal/internal/core/domain"
	"github.com/esop/appliance-portal/internal/core/ports"
	"github.com/esop/appliance-portal/internal/pkg/token"
)

// currentUserKey is the echo context key the authenticated user is bound to.
const currentUserKey = "current_user"

// Authenticate verifies the bearer token and resolves it to an active user,
// which it binds into the request context. Every failure (missing header,
// bad signature, expiry, unknown subject, deactivated account) is rejected
// with the same 401 before the handler runs. The account is re-read per
// request, so deactivating a user invalidates tokens issued earlier.
func Authenticate(verifier ports.TokenVerifier, repo ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return reject(c, "missing_token", "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return reject(c, "missing_token", "invalid authorization header")
			}

			username, err := verifier.Verify(parts[1])
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					return reject(c, "expired_token", "invalid or expired token")
				}
				return reject(c, "invalid_token", "invalid or expired token")
			}

			user, err := repo.FindByUsername(c.Request().Context(), username)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return reject(c, "unknown_user", "invalid or expired token")
				}
				return err
			}
			if !user.IsActive {
				// Deliberately indistinguishable from an invalid token.
				return reject(c, "inactive_user", "invalid or expired token")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user bound by Authenticate, or nil when the
// middleware did not run.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(currentUserKey).(*domain.User)
	return user
}

func reject(c echo.Context, reason, msg string) error {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
