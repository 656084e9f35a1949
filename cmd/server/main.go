package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"truck-status-service/internal/adapters/cache"
	"truck-status-service/internal/api"
	"truck-status-service/internal/app"
	"truck-status-service/internal/config"
	"truck-status-service/internal/ports"
	"truck-status-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the configured cache backend and truck source behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer deps.Close()

	truckCache := cache.NewTruckCache(deps.Store, ports.SystemClock)

	// Drop entries left over from a previous session before serving.
	services.SweepOnStart(ctx, truckCache)

	feed := services.NewTruckFeed(deps.Source, truckCache, ports.SystemClock)
	router := api.NewRouter(api.RouterConfig{
		Feed:             feed,
		Cache:            truckCache,
		Clock:            ports.SystemClock,
		DefaultTimezone:  cfg.DefaultTimezone,
		DefaultLookahead: cfg.DefaultLookahead,
	})

	log.Printf(
		"Server listening addr=:%s cache=%s source=%s tz=%s lookahead=%d",
		cfg.Port, cfg.CacheBackend, cfg.TruckSource, cfg.DefaultTimezone, cfg.DefaultLookahead,
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
