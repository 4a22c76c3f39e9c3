package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/service"
)

// RequireRoles narrows an authenticated route to the declared roles. It is
// additive to the guard's own policy.
func RequireRoles(roles ...domain.Role) func(AuthedHandler) AuthedHandler {
	declared := append([]domain.Role(nil), roles...)
	return func(next AuthedHandler) AuthedHandler {
		return func(c echo.Context, auth domain.AuthContext) error {
			if !service.Allow(declared, auth) {
				return fmt.Errorf("%w: role %s", domain.ErrForbidden, auth.Role)
			}
			return next(c, auth)
		}
	}
}
