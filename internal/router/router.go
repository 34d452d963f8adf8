package router

import (
	"log/slog"
	"net/http"

	"freshguard-api/internal/handler"
	"freshguard-api/internal/middleware"
	"freshguard-api/pkg/apierror"
	"freshguard-api/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler        *handler.Handler
	ItemHandler    *handler.ItemHandler
	AuthHandler    *handler.AuthHandler
	BarcodeHandler *handler.BarcodeHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware func(http.Handler) http.Handler
	Logger         *slog.Logger
	AllowedOrigins []string
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Token", "X-Login-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, apierror.NotFound("Route not found"))
	})

	r.Route("/api", func(r chi.Router) {
		// PUBLIC routes (no auth required)
		if cfg.Handler != nil {
			r.Get("/status", cfg.Handler.Status)
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.ItemHandler != nil {
			r.Get("/categories", cfg.ItemHandler.Categories)
			r.Post("/expiration/preview", cfg.ItemHandler.PreviewExpiration)
		}

		if cfg.AuthHandler != nil {
			r.Get("/auth/google", cfg.AuthHandler.Login)
			r.Get("/auth/callback", cfg.AuthHandler.Callback)
			r.Get("/auth/logout", cfg.AuthHandler.Logout)
		}

		// Admin endpoints check X-Login-Key themselves
		if cfg.AdminHandler != nil {
			r.Get("/admin/stats", cfg.AdminHandler.GetStats)
		}

		// AUTHENTICATED routes (use Group to apply auth middleware only to these)
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware)

			if cfg.AuthHandler != nil {
				r.Get("/auth/user", cfg.AuthHandler.User)
			}

			if cfg.ItemHandler != nil {
				r.Route("/items", func(r chi.Router) {
					r.Get("/", cfg.ItemHandler.List)
					r.Post("/", cfg.ItemHandler.Create)
					r.Get("/{id}", cfg.ItemHandler.Get)
					r.Patch("/{id}", cfg.ItemHandler.Update)
					r.Delete("/{id}", cfg.ItemHandler.Delete)
				})
			}

			if cfg.BarcodeHandler != nil {
				r.Get("/barcode/{code}", cfg.BarcodeHandler.Lookup)
			}
		})
	})

	return r
}
