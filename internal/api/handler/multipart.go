package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

const (
	uploadField = "file"
	// multipartOverhead covers boundaries and part headers on top of the file.
	multipartOverhead int64 = 64 << 10
)

// formUpload extracts the "file" part of a multipart request. The returned
// closer must be called once the upload has been consumed.
func formUpload(c echo.Context, maxSize int64) (domain.Upload, io.Closer, error) {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxSize+multipartOverhead)

	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Upload{}, nil, domain.ErrPayloadTooLarge
		}
		return domain.Upload{}, nil, domain.ErrMissingFile
	}
	if fh.Size > maxSize {
		return domain.Upload{}, nil, domain.ErrPayloadTooLarge
	}
	return openPart(fh)
}

func openPart(fh *multipart.FileHeader) (domain.Upload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, nil, err
	}
	return domain.Upload{
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get(echo.HeaderContentType),
		Size:         fh.Size,
		Content:      f,
	}, f, nil
}
