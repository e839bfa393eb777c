package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"spyfall"
	"spyfall/internal/catalog"
	"spyfall/internal/config"
	"spyfall/internal/handlers"
	localMiddleware "spyfall/internal/middleware"
	"spyfall/internal/store"
)

// Server bundles the pieces the serve command runs
type Server struct {
	Handler     http.Handler
	Store       *store.MemoryStore
	RateLimiter *localMiddleware.RateLimiter
}

// SetupServer builds the catalog, table store and router from cfg
func SetupServer(cfg *config.ServerConfig, logger *slog.Logger) (*Server, error) {
	c, err := loadCatalog(cfg.Server.CatalogPath)
	if err != nil {
		return nil, err
	}

	tables := store.NewMemoryStore(c, cfg.Rules(),
		store.WithTableTimeout(cfg.Server.TableTimeout),
		store.WithLogger(logger),
	)
	h := handlers.New(tables, c, logger)

	limiter := localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
	r := handlers.SetupRouter(h, cfg, &handlers.RouterOptions{RateLimiter: limiter})

	return &Server{Handler: r, Store: tables, RateLimiter: limiter}, nil
}

// loadCatalog reads the catalog at path, or the embedded one when path is empty
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.New(spyfall.LocationsYAML)
	}
	return catalog.Load(path)
}

// newLogger builds the process logger from the configured level and format
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
