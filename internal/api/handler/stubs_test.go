package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	refreshFn  func(ctx context.Context, auth domain.AuthContext) (string, error)
	logoutFn   func(ctx context.Context, auth domain.AuthContext) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, auth domain.AuthContext) (string, error) {
	return s.refreshFn(ctx, auth)
}

func (s *stubAuthService) Logout(ctx context.Context, auth domain.AuthContext) error {
	return s.logoutFn(ctx, auth)
}

type stubProfileService struct {
	getFn     func(ctx context.Context, id string) (*domain.User, error)
	listFn    func(ctx context.Context, page, limit int) (*ports.ListUsersResult, error)
	updateFn  func(ctx context.Context, id string, u domain.ProfileUpdate) (*domain.User, error)
	replaceFn func(ctx context.Context, id string, up domain.Upload) (*ports.ImageReplacement, error)
}

func (s *stubProfileService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubProfileService) List(ctx context.Context, page, limit int) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubProfileService) Update(ctx context.Context, id string, u domain.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, id, u)
}

func (s *stubProfileService) ReplaceImage(ctx context.Context, id string, up domain.Upload) (*ports.ImageReplacement, error) {
	return s.replaceFn(ctx, id, up)
}

type stubAssetStore struct {
	storeFn  func(ctx context.Context, up domain.Upload, cat domain.AssetCategory, owner string) (*domain.Asset, error)
	openFn   func(ctx context.Context, name string, cat domain.AssetCategory) (io.ReadCloser, *ports.BlobInfo, error)
	deleteFn func(ctx context.Context, name string, cat domain.AssetCategory) error
}

func (s *stubAssetStore) Validate(string) error { return nil }

func (s *stubAssetStore) Store(ctx context.Context, up domain.Upload, cat domain.AssetCategory, owner string) (*domain.Asset, error) {
	return s.storeFn(ctx, up, cat, owner)
}

func (s *stubAssetStore) URLFor(filename string, cat domain.AssetCategory) string {
	return "http://files.test/" + string(cat) + "/" + filename
}

func (s *stubAssetStore) Open(ctx context.Context, name string, cat domain.AssetCategory) (io.ReadCloser, *ports.BlobInfo, error) {
	return s.openFn(ctx, name, cat)
}

func (s *stubAssetStore) Delete(ctx context.Context, name string, cat domain.AssetCategory) error {
	return s.deleteFn(ctx, name, cat)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// multipartContext builds a request carrying data as the "file" part.
func multipartContext(t *testing.T, e *echo.Echo, target, filename, contentType string, data []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(data)
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func sampleUser() *domain.User {
	return &domain.User{
		ID:        "u1",
		Email:     "alice@example.com",
		Username:  "alice",
		Role:      domain.RoleUser,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}
