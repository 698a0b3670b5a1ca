package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/lmittmann/tint"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
	"github.com/portfoliokit/media-content/pkg/mediacontent/api"
	"github.com/portfoliokit/media-content/pkg/mediacontent/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)
	slog.SetDefault(log)

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx, log)
	if err != nil {
		log.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	var auth *jwtauth.JWTAuth
	if cfg.JWTSecret != "" {
		auth = jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
	} else {
		log.Warn("JWT_SECRET not set, mutating routes are unauthenticated")
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: routes(svc, auth),
	}

	go func() {
		log.Info("server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"storage_driver", cfg.StorageDriver)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server exiting")
}

func routes(svc mediacontent.Service, auth *jwtauth.JWTAuth) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})

	r.Mount("/api", api.Router(svc, auth))
	return r
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}
	return slog.New(handler)
}

func parseLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
