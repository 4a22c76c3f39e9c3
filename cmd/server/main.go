package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/devfolio/portfolio-api/internal/api"
	"github.com/devfolio/portfolio-api/internal/api/handler"
	"github.com/devfolio/portfolio-api/internal/api/metrics"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
	"github.com/devfolio/portfolio-api/internal/core/service"
	"github.com/devfolio/portfolio-api/internal/infrastructure/config"
	mongodb "github.com/devfolio/portfolio-api/internal/infrastructure/db/mongo"
	redisdb "github.com/devfolio/portfolio-api/internal/infrastructure/db/redis"
	"github.com/devfolio/portfolio-api/internal/infrastructure/queue"
	"github.com/devfolio/portfolio-api/internal/infrastructure/storage"
	"github.com/devfolio/portfolio-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// Init is a no-op once run has configured the logger.
		log := logger.Init(logger.Options{})
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portfolio-api",
	})

	// --- Storage backends ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "portfolio-api",
	})
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	health := map[string]handler.Pinger{"mongo": mongodb.Pinger{Client: mongoClient}}

	var revoked ports.TokenRevocationStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		revoked = redisdb.NewRevocationStore(rdb)
		health["redis"] = redisdb.Pinger{Client: rdb}
	} else {
		log.Warn().Msg("REDIS_ADDR not set: logout will not revoke tokens")
	}

	blobs, err := storage.New(ctx, storage.Options{
		Driver:    cfg.Storage.Driver,
		LocalRoot: cfg.Storage.Root,
		MinIO: storage.MinIOConfig{
			Endpoint:  cfg.Storage.MinIOEndpoint,
			AccessKey: cfg.Storage.MinIOAccessKey,
			SecretKey: cfg.Storage.MinIOSecretKey,
			UseSSL:    cfg.Storage.MinIOUseSSL,
			Bucket:    cfg.Storage.MinIOBucket,
		},
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// --- Services ---
	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	if err != nil {
		return err
	}

	assets := service.NewAssetService(blobs, service.AssetConfig{
		BaseURL:       cfg.BaseURL,
		MaxUploadSize: cfg.Storage.MaxUploadSize,
	}, logger.For("assets"))

	cleaner := queue.NewCleanupDispatcher(0, assets, logger.For("cleanup"))
	cleaner.OnResult = func(_ domain.AssetRef, err error) {
		metrics.AssetDeletesTotal.WithLabelValues("cleanup", metrics.ResultLabel(err)).Inc()
	}
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	cleaner.Start(workerCtx)

	profiles := service.NewProfileService(users, assets, cleaner, logger.For("profiles"))
	auth := service.NewAuthService(users, tokens, revoked, tokens.RefreshTTL(), logger.For("auth"))

	if cfg.Seed.AdminEmail != "" {
		if err := auth.EnsureAdmin(ctx, ports.RegisterInput{
			Email:    cfg.Seed.AdminEmail,
			Username: cfg.Seed.AdminUsername,
			Password: cfg.Seed.AdminPassword,
		}); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	e := api.NewRouter(api.Deps{
		Auth:             auth,
		Profiles:         profiles,
		Assets:           assets,
		Verifier:         tokens,
		Identities:       users,
		Revoked:          revoked,
		Health:           health,
		Logger:           logger.For("http"),
		CORSOrigins:      cfg.Origins,
		MaxUploadSize:    cfg.Storage.MaxUploadSize,
		RefreshTTL:       cfg.JWT.RefreshTTL,
		EnforceAdminRole: cfg.Auth.EnforceAdminRole,
		AuthRateLimitRPM: cfg.Auth.RateLimitRPM,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	// Handlers are done; let queued deletes finish.
	cleaner.Close()
	log.Info().Msg("server stopped")
	return nil
}
