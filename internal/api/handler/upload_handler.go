package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/api/metrics"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
	"github.com/devfolio/portfolio-api/internal/core/service"
)

// UploadHandler serves admin uploads and public file downloads.
type UploadHandler struct {
	assets        ports.AssetStore
	maxUploadSize int64
}

func NewUploadHandler(assets ports.AssetStore, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{assets: assets, maxUploadSize: maxUploadSize}
}

// Upload stores an image or PDF in the general uploads namespace.
//
// @Summary      Upload a file
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image or PDF"
// @Success      201   {object}  uploadResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      413   {object}  map[string]any
// @Router       /upload [post]
func (h *UploadHandler) Upload(c echo.Context, auth domain.AuthContext) error {
	return h.store(c, auth, domain.CategoryUpload)
}

// UploadPDF stores a PDF in the pdfs namespace.
//
// @Summary      Upload a PDF
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "PDF document"
// @Success      201   {object}  uploadResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      413   {object}  map[string]any
// @Router       /upload/pdf [post]
func (h *UploadHandler) UploadPDF(c echo.Context, auth domain.AuthContext) error {
	return h.store(c, auth, domain.CategoryPDF)
}

func (h *UploadHandler) store(c echo.Context, _ domain.AuthContext, category domain.AssetCategory) error {
	upload, closer, err := formUpload(c, h.maxUploadSize)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(category), "rejected").Inc()
		return err
	}
	defer closer.Close()

	asset, err := h.assets.Store(c.Request().Context(), upload, category, "")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(category), "rejected").Inc()
		return err
	}

	metrics.UploadsTotal.WithLabelValues(string(category), "stored").Inc()
	metrics.UploadBytes.WithLabelValues(string(category)).Observe(float64(asset.Size))
	return c.JSON(http.StatusCreated, toUploadResponse(asset))
}

// Delete removes a stored file. Deleting a missing file succeeds.
//
// @Summary      Delete a file
// @Tags         upload
// @Security     BearerAuth
// @Param        category  path  string  true  "uploads, images or pdfs"
// @Param        filename  path  string  true  "Stored filename"
// @Success      204
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /upload/{category}/{filename} [delete]
func (h *UploadHandler) Delete(c echo.Context, _ domain.AuthContext) error {
	category, err := service.ParseCategory(c.Param("category"))
	if err != nil {
		return err
	}

	err = h.assets.Delete(c.Request().Context(), c.Param("filename"), category)
	metrics.AssetDeletesTotal.WithLabelValues("admin", metrics.ResultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Serve streams stored files of one category. Names are unique per upload,
// so responses are cacheable indefinitely.
func (h *UploadHandler) Serve(category domain.AssetCategory) echo.HandlerFunc {
	return func(c echo.Context) error {
		filename := c.Param("filename")
		rc, info, err := h.assets.Open(c.Request().Context(), filename, category)
		if err != nil {
			return err
		}
		defer rc.Close()

		header := c.Response().Header()
		header.Set("Cache-Control", "public, max-age=31536000, immutable")
		header.Set("X-Content-Type-Options", "nosniff")
		contentType := info.ContentType
		if contentType == "" {
			contentType = echo.MIMEOctetStream
		}
		header.Set(echo.HeaderContentType, contentType)

		if rs, ok := rc.(io.ReadSeeker); ok {
			http.ServeContent(c.Response(), c.Request(), filename, info.ModTime, rs)
			return nil
		}
		if info.Size > 0 {
			header.Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
		}
		return c.Stream(http.StatusOK, contentType, rc)
	}
}
