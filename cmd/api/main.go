package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freshguard-api/internal/barcode"
	"freshguard-api/internal/cache"
	"freshguard-api/internal/config"
	"freshguard-api/internal/handler"
	"freshguard-api/internal/identity"
	"freshguard-api/internal/logger"
	"freshguard-api/internal/middleware"
	"freshguard-api/internal/repository"
	"freshguard-api/internal/router"
	"freshguard-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.LogFormat)
	log.Info("starting", "app", cfg.App.Name, "version", cfg.App.Version, "env", cfg.App.Environment)

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	c, cacheType := openCache(ctx, cfg.Cache)
	defer c.Close()

	var provider identity.Provider
	if cfg.Google.Enabled() {
		google, err := identity.NewGoogle(ctx, identity.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		})
		if err != nil {
			log.Warn("google login disabled", "error", err)
		} else {
			provider = google
			log.Info("google login enabled", "redirect_url", cfg.Google.RedirectURL)
		}
	} else {
		log.Warn("google login not configured")
	}

	// Initialize services
	sessions := service.NewSessionService(c, cfg.Session.TTL)
	items := service.NewItemService(store)
	auth := service.NewAuthService(provider, store, sessions)
	lookup := barcode.NewClient(barcode.Config{
		BaseURL:   cfg.Barcode.BaseURL,
		Timeout:   cfg.Barcode.Timeout,
		PerMinute: cfg.Barcode.PerMinute,
		UserAgent: cfg.Barcode.UserAgent,
		CacheTTL:  cfg.Barcode.CacheTTL,
	}, c)

	r := router.New(router.Config{
		Handler:     handler.New(cfg.App.Name, cfg.App.Version, store, c),
		ItemHandler: handler.NewItemHandler(items),
		AuthHandler: handler.NewAuthHandler(auth, sessions, handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		}),
		BarcodeHandler: handler.NewBarcodeHandler(lookup),
		AdminHandler:   handler.NewAdminHandler(store, cfg.Storage.Type, cacheType, cfg.App.LoginKey),
		AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthConfig{
			Sessions:   sessions,
			CookieName: cfg.Session.CookieName,
		}),
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (repository.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.Type {
	case "memory":
		slog.Warn("using in-memory storage; data is lost on restart")
		return repository.NewMemoryRepository(), nil
	case "postgres":
		return repository.NewPostgresRepository(ctx, cfg.PostgresDSN())
	case "mysql":
		return repository.NewMySQLRepository(ctx, cfg.MySQLDSN())
	default: // sqlite
		return repository.NewSQLiteRepository(ctx, cfg.Path)
	}
}

type closableCache interface {
	cache.Cache
	Close() error
}

// openCache connects to Redis when configured and falls back to the
// in-memory cache when Redis is unreachable.
func openCache(ctx context.Context, cfg config.CacheConfig) (closableCache, string) {
	if cfg.Type == "redis" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:      cfg.RedisAddress(),
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err == nil {
			return rc, "redis"
		}
		slog.Warn("redis unavailable, using in-memory cache", "error", err)
	}
	return cache.NewMemoryCache(time.Minute), "memory"
}
