package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/api/metrics"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// UserHandler serves profile editing and the admin user listing.
type UserHandler struct {
	profiles      ports.ProfileService
	urls          urlResolver
	maxUploadSize int64
}

func NewUserHandler(profiles ports.ProfileService, urls urlResolver, maxUploadSize int64) *UserHandler {
	return &UserHandler{profiles: profiles, urls: urls, maxUploadSize: maxUploadSize}
}

// UpdateProfile applies a partial update to the caller's profile.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /users/profile [patch]
func (h *UserHandler) UpdateProfile(c echo.Context, auth domain.AuthContext) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.profiles.Update(c.Request().Context(), auth.UserID, toProfileUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user, h.urls))
}

// UploadProfileImage replaces the caller's profile image.
//
// @Summary      Upload profile image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image (jpg, jpeg, png, gif, webp)"
// @Success      201   {object}  profileImageResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      413   {object}  map[string]any
// @Router       /users/profile/image [post]
func (h *UserHandler) UploadProfileImage(c echo.Context, auth domain.AuthContext) error {
	upload, closer, err := formUpload(c, h.maxUploadSize)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(domain.CategoryProfileImage), "rejected").Inc()
		return err
	}
	defer closer.Close()

	res, err := h.profiles.ReplaceImage(c.Request().Context(), auth.UserID, upload)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(domain.CategoryProfileImage), "rejected").Inc()
		return err
	}

	metrics.UploadsTotal.WithLabelValues(string(domain.CategoryProfileImage), "stored").Inc()
	metrics.UploadBytes.WithLabelValues(string(domain.CategoryProfileImage)).Observe(float64(res.Asset.Size))
	return c.JSON(http.StatusCreated, profileImageResponse{
		uploadResponse: toUploadResponse(res.Asset),
		User:           toUserResponse(res.User, h.urls),
	})
}

// List returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listUsersResponse
// @Failure      401    {object}  map[string]any
// @Failure      403    {object}  map[string]any
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context, _ domain.AuthContext) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	res, err := h.profiles.List(c.Request().Context(), q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListUsersResponse(res, h.urls))
}
