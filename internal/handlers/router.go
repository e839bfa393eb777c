package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"spyfall/internal/config"
	localMiddleware "spyfall/internal/middleware"
)

// RouterOptions allows customization of router setup for tests
type RouterOptions struct {
	DisableRateLimiting  bool
	DisableRequestLogger bool
	CustomMiddleware     []func(http.Handler) http.Handler
	// RateLimiter replaces the limiter built from the config
	RateLimiter *localMiddleware.RateLimiter
}

// SetupRouter creates the application router with all routes and middleware
func SetupRouter(h *Handler, cfg *config.ServerConfig, opts *RouterOptions) *chi.Mux {
	if opts == nil {
		opts = &RouterOptions{}
	}

	r := chi.NewRouter()

	// Chi's built-in middleware (conditionally applied)
	if !opts.DisableRequestLogger {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Use(localMiddleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))
	r.Use(localMiddleware.SecurityHeaders())

	if !opts.DisableRateLimiting {
		rateLimiter := opts.RateLimiter
		if rateLimiter == nil {
			rateLimiter = localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
		}
		r.Use(rateLimiter.Middleware())
	}

	for _, mw := range opts.CustomMiddleware {
		r.Use(mw)
	}

	// The JSON API gets a request timeout; SSE streams stay open
	r.Route("/api", func(r chi.Router) {
		if cfg.Server.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
		}

		r.Get("/categories", h.ListCategories)
		r.Post("/tables", h.CreateTable)

		r.Route("/tables/{code}", func(r chi.Router) {
			r.Get("/", h.GetTable)
			r.Delete("/", h.DeleteTable)

			r.Post("/players", h.AddPlayer)
			r.Delete("/players/{id}", h.RemovePlayer)
			r.Post("/players/{id}/card", h.ToggleCard)
			r.Get("/players/{id}/vote", h.Vote)
			r.Post("/players/{id}/eliminate", h.Eliminate)
			r.Post("/players/{id}/guess", h.Guess)

			r.Post("/categories/{id}/toggle", h.ToggleCategory)
			r.Get("/locations", h.Locations)

			r.Post("/start", h.StartGame)
			r.Post("/timer/{action}", h.Timer)
			r.Post("/restart", h.Restart)
			r.Post("/reset", h.Reset)
		})
	})

	r.Get("/sse/tables/{code}", ValidateSSERequest(h.StreamTable))

	// Health check endpoints (no auth required)
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil || h.catalog == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
