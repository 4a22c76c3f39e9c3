package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/api/metrics"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	profiles    ports.ProfileService
	urls        urlResolver
}

func NewAuthHandler(authService ports.AuthService, profiles ports.ProfileService, urls urlResolver) *AuthHandler {
	return &AuthHandler{authService: authService, profiles: profiles, urls: urls}
}

// Register creates a new user account. New accounts always get the USER role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("register").Inc()
	return c.JSON(http.StatusCreated, registerResponse{User: toUserResponse(user, h.urls)})
}

// Login authenticates a user and returns an access and a refresh token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthEventsTotal.WithLabelValues("login_failed").Inc()
		}
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("login").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         toUserResponse(res.User, h.urls),
	})
}

// Refresh mints a new access token. The refresh guard accepts expired
// credentials within the refresh window.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  refreshResponse
// @Failure      401  {object}  map[string]any
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context, auth domain.AuthContext) error {
	token, err := h.authService.Refresh(c.Request().Context(), auth)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrIdentityNotFound
		}
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("refresh").Inc()
	return c.JSON(http.StatusOK, refreshResponse{AccessToken: token})
}

// Logout revokes the presented access token and the session it belongs to.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]any
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context, auth domain.AuthContext) error {
	if err := h.authService.Logout(c.Request().Context(), auth); err != nil {
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues("logout").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]any
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context, auth domain.AuthContext) error {
	user, err := h.profiles.Get(c.Request().Context(), auth.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrIdentityNotFound
		}
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user, h.urls))
}
