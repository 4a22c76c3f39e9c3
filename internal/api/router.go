package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/devfolio/portfolio-api/docs"
	"github.com/devfolio/portfolio-api/internal/api/handler"
	"github.com/devfolio/portfolio-api/internal/api/middleware"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
	"github.com/devfolio/portfolio-api/internal/core/service"
)

// Deps is everything the router needs. Revocations and the readiness pingers
// may be nil.
type Deps struct {
	Auth       ports.AuthService
	Profiles   ports.ProfileService
	Assets     ports.AssetStore
	Verifier   ports.TokenVerifier
	Identities ports.IdentityFinder
	Revoked    ports.TokenRevocationStore
	Health     map[string]handler.Pinger
	Logger     zerolog.Logger

	CORSOrigins      []string
	MaxUploadSize    int64
	RefreshTTL       time.Duration
	EnforceAdminRole bool
	AuthRateLimitRPM int
}

// Guards holds the three guard policies the routes are registered under.
type Guards struct {
	Auth    *service.Guard
	Admin   *service.Guard
	Refresh *service.Guard
}

// NewGuards builds the plain, admin and refresh guards over one pipeline.
func NewGuards(d Deps) Guards {
	admin := service.GuardPolicy{Name: "admin", Roles: []domain.Role{domain.RoleAdmin}}
	if !d.EnforceAdminRole {
		d.Logger.Warn().Msg("admin guard role enforcement disabled: any authenticated user passes admin routes")
		admin.Roles = nil
	}
	refresh := service.GuardPolicy{
		Name:               "refresh",
		IgnoreExpiration:   true,
		AllowRefreshTokens: true,
		MaxTokenAge:        d.RefreshTTL,
	}
	return Guards{
		Auth:    service.NewGuard(service.GuardPolicy{Name: "auth"}, d.Verifier, d.Identities, d.Revoked, d.Logger),
		Admin:   service.NewGuard(admin, d.Verifier, d.Identities, d.Revoked, d.Logger),
		Refresh: service.NewGuard(refresh, d.Verifier, d.Identities, d.Revoked, d.Logger),
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.CORS(d.CORSOrigins))

	// --- Dependencies ---
	guards := NewGuards(d)
	authed := middleware.Guard(guards.Auth, d.Logger)
	admin := middleware.Guard(guards.Admin, d.Logger)
	refresh := middleware.Guard(guards.Refresh, d.Logger)
	limiter := middleware.NewRateLimiter(d.AuthRateLimitRPM)

	authHandler := handler.NewAuthHandler(d.Auth, d.Profiles, d.Assets)
	userHandler := handler.NewUserHandler(d.Profiles, d.Assets, d.MaxUploadSize)
	uploadHandler := handler.NewUploadHandler(d.Assets, d.MaxUploadSize)
	healthHandler := handler.NewHealthHandler(d.Health)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	a := e.Group("/auth")
	a.POST("/register", authHandler.Register, limiter.Middleware())
	a.POST("/login", authHandler.Login, limiter.Middleware())
	a.POST("/refresh", refresh(authHandler.Refresh))
	a.POST("/logout", authed(authHandler.Logout))
	a.GET("/profile", authed(authHandler.Profile))

	// --- User routes ---
	u := e.Group("/users")
	u.GET("", admin(userHandler.List))
	u.PATCH("/profile", authed(userHandler.UpdateProfile))
	u.POST("/profile/image", authed(userHandler.UploadProfileImage))

	// --- Upload routes ---
	e.POST("/upload", admin(uploadHandler.Upload))
	e.POST("/upload/pdf", admin(uploadHandler.UploadPDF))
	// Deletion keeps the ADMIN requirement even when the admin guard runs in
	// pass-through mode.
	e.DELETE("/upload/:category/:filename", authed(middleware.RequireRoles(domain.RoleAdmin)(uploadHandler.Delete)))

	// --- Public file serving ---
	e.GET("/upload/:filename", uploadHandler.Serve(domain.CategoryUpload))
	e.GET("/images/:filename", uploadHandler.Serve(domain.CategoryProfileImage))
	e.GET("/pdfs/:filename", uploadHandler.Serve(domain.CategoryPDF))

	return e
}
