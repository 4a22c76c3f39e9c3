package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
	"github.com/devfolio/portfolio-api/internal/core/service"
)

type routerUsers map[string]*domain.User

func (u routerUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

type routerAuth struct{ users routerUsers }

func (a routerAuth) Register(context.Context, ports.RegisterInput) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (a routerAuth) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (a routerAuth) Refresh(_ context.Context, auth domain.AuthContext) (string, error) {
	return "fresh-" + auth.UserID, nil
}

func (a routerAuth) Logout(context.Context, domain.AuthContext) error { return nil }

type routerProfiles struct{ users routerUsers }

func (p routerProfiles) Get(ctx context.Context, id string) (*domain.User, error) {
	return p.users.FindByID(ctx, id)
}

func (p routerProfiles) List(_ context.Context, page, limit int) (*ports.ListUsersResult, error) {
	return &ports.ListUsersResult{Page: page, Limit: limit}, nil
}

func (p routerProfiles) Update(ctx context.Context, id string, _ domain.ProfileUpdate) (*domain.User, error) {
	return p.users.FindByID(ctx, id)
}

func (p routerProfiles) ReplaceImage(context.Context, string, domain.Upload) (*ports.ImageReplacement, error) {
	return nil, domain.ErrMissingFile
}

type routerAssets struct{ deleted []string }

func (a *routerAssets) Validate(string) error { return nil }

func (a *routerAssets) Store(context.Context, domain.Upload, domain.AssetCategory, string) (*domain.Asset, error) {
	return nil, domain.ErrMissingFile
}

func (a *routerAssets) URLFor(filename string, category domain.AssetCategory) string {
	return "http://files.test/" + string(category) + "/" + filename
}

func (a *routerAssets) Open(context.Context, string, domain.AssetCategory) (io.ReadCloser, *ports.BlobInfo, error) {
	return nil, nil, domain.ErrNotFound
}

func (a *routerAssets) Delete(_ context.Context, filename string, _ domain.AssetCategory) error {
	a.deleted = append(a.deleted, filename)
	return nil
}

type routerFixture struct {
	e      *echo.Echo
	tokens *service.TokenService
	users  routerUsers
	assets *routerAssets
}

func newRouterFixture(t *testing.T, enforceAdmin bool) *routerFixture {
	t.Helper()
	tokens, err := service.NewTokenService(service.TokenConfig{Secret: "router-secret", RefreshSecret: "router-refresh"})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	users := routerUsers{
		"u1": {ID: "u1", Username: "alice", Role: domain.RoleUser},
		"a1": {ID: "a1", Username: "root", Role: domain.RoleAdmin},
	}
	assets := &routerAssets{}
	e := NewRouter(Deps{
		Auth:             routerAuth{users: users},
		Profiles:         routerProfiles{users: users},
		Assets:           assets,
		Verifier:         tokens,
		Identities:       users,
		Logger:           zerolog.Nop(),
		CORSOrigins:      []string{"*"},
		MaxUploadSize:    1 << 20,
		RefreshTTL:       time.Hour,
		EnforceAdminRole: enforceAdmin,
		AuthRateLimitRPM: 10,
	})
	return &routerFixture{e: e, tokens: tokens, users: users, assets: assets}
}

func (f *routerFixture) access(t *testing.T, id string) string {
	t.Helper()
	tok, err := f.tokens.IssueAccessToken(f.users[id])
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func (f *routerFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	f := newRouterFixture(t, true)

	if rec := f.do(http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/images/profile-u1-missing.png", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing image, got %d", rec.Code)
	}
}

func TestRouter_GuardedRouteWithoutToken(t *testing.T) {
	f := newRouterFixture(t, true)

	rec := f.do(http.MethodGet, "/auth/profile", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Message != "Unauthorized" || body.Path != "/auth/profile" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestRouter_AdminRoutes(t *testing.T) {
	f := newRouterFixture(t, true)

	if rec := f.do(http.MethodGet, "/users", f.access(t, "u1")); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for USER on /users, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/users", f.access(t, "a1")); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ADMIN on /users, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/upload/uploads/file-x.png", f.access(t, "a1")); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", rec.Code)
	}
	if len(f.assets.deleted) != 1 || f.assets.deleted[0] != "file-x.png" {
		t.Fatalf("expected one delete of file-x.png, got %v", f.assets.deleted)
	}
}

func TestRouter_AdminPassThroughKeepsDeleteRestricted(t *testing.T) {
	f := newRouterFixture(t, false)
	user := f.access(t, "u1")

	if rec := f.do(http.MethodGet, "/users", user); rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through 200 for USER on /users, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/upload/uploads/file-x.png", user); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for USER on delete, got %d", rec.Code)
	}
	if len(f.assets.deleted) != 0 {
		t.Fatalf("handler must not run, got %v", f.assets.deleted)
	}
}

func TestRouter_RefreshRoute(t *testing.T) {
	f := newRouterFixture(t, true)
	refresh, err := f.tokens.IssueRefreshToken(f.users["u1"])
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	rec := f.do(http.MethodPost, "/auth/refresh", refresh)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /auth/refresh, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["accessToken"] != "fresh-u1" {
		t.Fatalf("unexpected body %v", body)
	}

	// Refresh tokens do not open access-guarded routes.
	if rec := f.do(http.MethodGet, "/auth/profile", refresh); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token on /auth/profile, got %d", rec.Code)
	}
}
