package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hemicycle/internal/app"
	"hemicycle/internal/config"
	"hemicycle/internal/logger"
	"hemicycle/internal/middleware"
	"hemicycle/internal/router"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database, cache and services
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", "error", err)
	}
	defer a.Close()
	if cfg.AdminEnabled && cfg.AdminToken == "" {
		log.Warn("ADMIN_ENABLED is set without ADMIN_TOKEN, admin routes will refuse every request")
	}

	// Initialize Gin
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	router.RegisterRoutes(r, a.RouterDeps())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Hemicycle server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
