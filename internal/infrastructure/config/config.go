package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string   `env:"PORT,         default=3000"`
	Env      string   `env:"ENV,          default=development"`
	LogLevel string   `env:"LOG_LEVEL,    default=info"`
	BaseURL  string   `env:"BASE_URL,     default=http://localhost:3000"`
	Origins  []string `env:"CORS_ORIGINS, default=http://localhost:5173"`

	JWT     JWTConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Auth    AuthConfig
	Seed    SeedConfig
}

type JWTConfig struct {
	Secret        string        `env:"JWT_SECRET"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL,  default=1h"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portfolio"`
}

// RedisConfig leaves Addr empty by default: without Redis, logout cannot
// revoke tokens and the guard skips the revocation check.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type StorageConfig struct {
	Driver        string `env:"STORAGE_DRIVER,  default=local"`
	Root          string `env:"UPLOAD_ROOT,     default=./storage"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE, default=5242880"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL, default=false"`
	MinIOBucket    string `env:"MINIO_BUCKET,  default=portfolio-assets"`
}

type AuthConfig struct {
	// EnforceAdminRole makes the admin guard require the ADMIN role. When
	// false the admin routes admit any authenticated identity.
	EnforceAdminRole bool `env:"ADMIN_GUARD_ENFORCE_ROLE, default=true"`
	RateLimitRPM     int  `env:"AUTH_RATE_LIMIT_RPM,      default=10"`
}

type SeedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	AdminUsername string `env:"SEED_ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive"))
	}
	if c.Storage.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE must be positive"))
	}
	switch c.Storage.Driver {
	case "local":
	case "minio":
		if c.Storage.MinIOEndpoint == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT is required for the minio driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be local or minio, got %q", c.Storage.Driver))
	}
	if c.Auth.RateLimitRPM <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT_RPM must be positive"))
	}
	if c.Seed.AdminEmail != "" && c.Seed.AdminPassword == "" {
		errs = append(errs, errors.New("SEED_ADMIN_PASSWORD is required when SEED_ADMIN_EMAIL is set"))
	}
	return errors.Join(errs...)
}
