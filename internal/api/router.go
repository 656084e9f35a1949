package api

import (
	"net/http"
	"truck-status-service/internal/api/handlers"
	"truck-status-service/internal/ports"
	"truck-status-service/internal/services"
)

type RouterConfig struct {
	Feed             *services.TruckFeed
	Cache            ports.TruckCache
	Clock            ports.Clock
	DefaultTimezone  string
	DefaultLookahead int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	truckHandler := &handlers.TruckHandler{
		Feed:             cfg.Feed,
		DefaultTimezone:  cfg.DefaultTimezone,
		DefaultLookahead: cfg.DefaultLookahead,
	}
	statusHandler := &handlers.StatusHandler{
		Clock:            cfg.Clock,
		DefaultTimezone:  cfg.DefaultTimezone,
		DefaultLookahead: cfg.DefaultLookahead,
	}
	cacheHandler := &handlers.CacheHandler{Cache: cfg.Cache}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/trucks", truckHandler.List)
	mux.HandleFunc("/status", statusHandler.Status)
	mux.HandleFunc("/cache/sweep", cacheHandler.Sweep)

	return loggingMiddleware(mux)
}
