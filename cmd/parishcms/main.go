// Package main is the entry point for the parish CMS server. It loads
// configuration, connects to backing services, wires the stores and
// handlers, and runs the HTTP server with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parishcms/internal/auth"
	"parishcms/internal/cache"
	"parishcms/internal/config"
	"parishcms/internal/database"
	"parishcms/internal/handlers"
	"parishcms/internal/middleware"
	"parishcms/internal/router"
	"parishcms/internal/storage"
	"parishcms/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the initial admin account in development (no-op once users exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Redis backs the login rate limiter. The app runs without it; login
	// throttling is then disabled.
	var loginLimiter *middleware.LoginLimiter
	redisClient, err := cache.Connect(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		slog.Warn("redis not available, login rate limiting disabled", "error", err)
	} else {
		defer redisClient.Close()
		loginLimiter = middleware.NewLoginLimiter(redisClient, 10, time.Minute)
	}

	// S3-compatible object storage for uploaded images (optional).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket,
	)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("object storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("object storage not configured, image uploads disabled")
	}

	// Data stores.
	users := store.NewUserStore(db)
	sessions := store.NewSessionStore(db)
	posts := store.NewBlogStore(db)
	events := store.NewEventStore(db)
	members := store.NewMemberStore(db)
	testimonials := store.NewTestimonialStore(db)
	pages := store.NewPageStore(db)

	issuer := auth.NewIssuer(cfg.JWTSecret)
	secureCookies := !cfg.IsDev()

	// Handler groups.
	authHandlers := handlers.NewAuth(users, sessions, issuer, cfg.SiteURL, secureCookies)
	blogHandlers := handlers.NewBlog(posts)
	eventHandlers := handlers.NewEvents(events)
	memberHandlers := handlers.NewMembers(members)
	testimonialHandlers := handlers.NewTestimonials(testimonials)
	pageHandlers := handlers.NewPages(pages)
	uploadHandlers := handlers.NewUpload(storageClient)

	r := router.New(
		issuer, loginLimiter,
		authHandlers, blogHandlers, eventHandlers,
		memberHandlers, testimonialHandlers, pageHandlers, uploadHandlers,
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
