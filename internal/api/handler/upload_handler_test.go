package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

var adminAuth = domain.AuthContext{UserID: "admin", Role: domain.RoleAdmin}

func TestUploadHandler_Upload(t *testing.T) {
	assets := &stubAssetStore{
		storeFn: func(ctx context.Context, up domain.Upload, cat domain.AssetCategory, owner string) (*domain.Asset, error) {
			if cat != domain.CategoryUpload || owner != "" {
				t.Fatalf("unexpected target %s/%q", cat, owner)
			}
			return &domain.Asset{Filename: "file-abc.png", OriginalName: up.OriginalName, Size: 4, URL: "http://files.test/upload/file-abc.png"}, nil
		},
	}
	c, rec := multipartContext(t, newTestEcho(), "/upload", "cat.png", "image/png", []byte("data"))
	if err := NewUploadHandler(assets, 1<<20).Upload(c, adminAuth); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"originalName":"cat.png"`) || !strings.Contains(rec.Body.String(), `"url":"http://files.test/upload/file-abc.png"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadHandler_UploadPDF_TargetsPDFs(t *testing.T) {
	var got domain.AssetCategory
	assets := &stubAssetStore{
		storeFn: func(ctx context.Context, up domain.Upload, cat domain.AssetCategory, owner string) (*domain.Asset, error) {
			got = cat
			return nil, domain.ErrUnsupportedMediaType
		},
	}
	c, _ := multipartContext(t, newTestEcho(), "/upload/pdf", "cv.png", "image/png", []byte("data"))
	if err := NewUploadHandler(assets, 1<<20).UploadPDF(c, adminAuth); !errors.Is(err, domain.ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
	if got != domain.CategoryPDF {
		t.Fatalf("expected pdfs category, got %s", got)
	}
}

func TestUploadHandler_Delete(t *testing.T) {
	var deleted string
	assets := &stubAssetStore{
		deleteFn: func(ctx context.Context, name string, cat domain.AssetCategory) error {
			deleted = string(cat) + "/" + name
			return nil
		},
	}
	e := newTestEcho()
	c, rec := jsonContext(e, http.MethodDelete, "/upload/images/profile-u1-x.png", "")
	c.SetParamNames("category", "filename")
	c.SetParamValues("images", "profile-u1-x.png")

	if err := NewUploadHandler(assets, 1<<20).Delete(c, adminAuth); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != "images/profile-u1-x.png" {
		t.Fatalf("expected 204 for images/profile-u1-x.png, got %d %q", rec.Code, deleted)
	}
}

func TestUploadHandler_Delete_UnknownCategory(t *testing.T) {
	assets := &stubAssetStore{
		deleteFn: func(ctx context.Context, name string, cat domain.AssetCategory) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	c, _ := jsonContext(newTestEcho(), http.MethodDelete, "/upload/etc/passwd", "")
	c.SetParamNames("category", "filename")
	c.SetParamValues("etc", "passwd")
	if err := NewUploadHandler(assets, 1<<20).Delete(c, adminAuth); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestUploadHandler_Serve(t *testing.T) {
	assets := &stubAssetStore{
		openFn: func(ctx context.Context, name string, cat domain.AssetCategory) (io.ReadCloser, *ports.BlobInfo, error) {
			if cat != domain.CategoryPDF {
				t.Fatalf("unexpected category %s", cat)
			}
			if name != "pdf-a.pdf" {
				return nil, nil, domain.ErrNotFound
			}
			return io.NopCloser(bytes.NewReader([]byte("%PDF-1.4"))), &ports.BlobInfo{Size: 8, ContentType: "application/pdf", ModTime: time.Now()}, nil
		},
	}
	e := newTestEcho()
	e.GET("/pdfs/:filename", NewUploadHandler(assets, 1<<20).Serve(domain.CategoryPDF))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pdfs/pdf-a.pdf", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "%PDF-1.4" {
		t.Fatalf("expected pdf body, got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderContentType) != "application/pdf" || rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("unexpected headers: %v", rec.Header())
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/pdfs/missing.pdf", nil), httptest.NewRecorder())
	c.SetParamNames("filename")
	c.SetParamValues("missing.pdf")
	if err := NewUploadHandler(assets, 1<<20).Serve(domain.CategoryPDF)(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
