package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/api/metrics"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/service"
)

// Authenticator is implemented by *service.Guard.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (domain.AuthContext, error)
	Policy() service.GuardPolicy
}

// AuthedHandler is an echo handler that runs with a resolved identity.
type AuthedHandler func(c echo.Context, auth domain.AuthContext) error

// Guard adapts an Authenticator to echo. The wrapped handler only runs once
// the identity is resolved; rejections are returned to the error handler
// untouched.
func Guard(g Authenticator, log zerolog.Logger) func(AuthedHandler) echo.HandlerFunc {
	name := g.Policy().Name
	return func(next AuthedHandler) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth, err := g.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				stage := "unknown"
				var ge *service.GuardError
				if errors.As(err, &ge) {
					stage = string(ge.Stage)
				}
				outcome := "unauthenticated"
				if errors.Is(err, domain.ErrForbidden) {
					outcome = "forbidden"
				}
				metrics.GuardDecisionsTotal.WithLabelValues(name, outcome, stage).Inc()
				log.Debug().Err(err).Str("guard", name).Str("stage", stage).Msg("request rejected")
				return err
			}

			metrics.GuardDecisionsTotal.WithLabelValues(name, "allowed", string(service.StageAttached)).Inc()
			c.Set(userIDKey, auth.UserID)
			return next(c, auth)
		}
	}
}

// userIDKey exposes the resolved user to the request logger only.
const userIDKey = "user_id"
