// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Quillpost HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Build object storage, metrics and social login providers.
//  6. Wire HTTP handlers and bootstrap the admin account.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/quillpost/internal/api"
	"github.com/taibuivan/quillpost/internal/core/blog"
	"github.com/taibuivan/quillpost/internal/core/comment"
	"github.com/taibuivan/quillpost/internal/core/like"
	"github.com/taibuivan/quillpost/internal/core/post"
	"github.com/taibuivan/quillpost/internal/platform/config"
	"github.com/taibuivan/quillpost/internal/platform/constants"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/migration"
	"github.com/taibuivan/quillpost/internal/platform/objectstore"
	pgstore "github.com/taibuivan/quillpost/internal/platform/postgres"
	redisstore "github.com/taibuivan/quillpost/internal/platform/redis"
	"github.com/taibuivan/quillpost/internal/platform/sec"
	"github.com/taibuivan/quillpost/internal/users/account"
	"github.com/taibuivan/quillpost/internal/users/auth"
	"github.com/taibuivan/quillpost/internal/users/notification"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "quillpost"))
	slog.SetDefault(log)

	log.Info("[Quillpost] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "quillpost"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.Open(startupCtx, pgstore.Options{
		URL:              cfg.DatabaseURL,
		MaxConns:         cfg.DBMaxConns,
		StatementTimeout: cfg.DBStatementTimeout,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, redisstore.Options{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.Up(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Object Storage ─────────────────────────────────────────────────
	var images objectstore.Store = objectstore.Disabled{}
	if cfg.ObjectStorageEnabled() {
		s3Store, err := objectstore.NewS3Store(startupCtx, objectstore.Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PathStyle: cfg.S3PathStyle,
		})
		must(log, err, "initialize object storage")
		images = s3Store
	} else {
		log.Warn("object_storage_disabled")
	}

	// ── 7. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(registry)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context context.Context) error {
			return pgstore.Ping(context, pool)
		},
		CheckCache: func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	accountRepository := auth.NewAccountRepository(pool)
	sessionManager := auth.NewSessionManager(auth.SessionOptions{
		Secret: cfg.SessionSecret,
		Secure: cfg.IsProduction(),
		TTL:    cfg.SessionTTL,
	}, auth.NewSessionRepository(rdb), accountRepository, collector, log)

	notificationService := notification.NewService(notification.NewPostgresRepository(pool), log)
	verifyTokens := auth.NewVerificationTokenRepository(rdb)

	authService := auth.NewService(
		accountRepository,
		auth.NewResetTokenRepository(rdb),
		verifyTokens,
		sessionManager,
		auth.NewLogMailer(log),
		notificationService,
		auth.Links{BaseURL: cfg.PublicBaseURL},
		collector,
		log,
	)

	must(log, authService.EnsureAdmin(startupCtx, cfg.AdminEmail, cfg.AdminPassword), "bootstrap admin account")

	stateKey := sec.DeriveKey(cfg.SessionSecret, constants.OAuthStateKeyPurpose)
	states := sec.NewStateSigner(stateKey, constants.AppName, constants.OAuthStateTTL)
	providers := buildProviders(startupCtx, cfg, log)

	accountService := account.NewService(accountRepository, account.NewRepository(pool), verifyTokens, images, sessionManager, collector, log)

	blogRepository := blog.NewPostgresRepository(pool)
	blogService := blog.NewService(blogRepository, collector, log)
	postService := post.NewService(post.NewPostgresRepository(pool), blogRepository, collector, log)
	commentService := comment.NewService(comment.NewPostgresRepository(pool), postService, notificationService, collector, log)
	likeService := like.NewService(like.NewPostgresRepository(pool), postService, notificationService, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(authService, sessionManager, providers, states, images.URL, collector),
		Account:      account.NewHandler(accountService, authService, sessionManager, images.URL),
		Blog:         blog.NewHandler(blogService),
		Post:         post.NewHandler(postService),
		Comment:      comment.NewHandler(commentService),
		Like:         like.NewHandler(likeService),
		Notification: notification.NewHandler(notificationService),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, sessionManager, collector, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// buildProviders enables each social login provider whose credentials are configured.
// A provider that fails to initialize is skipped so local login keeps working.
func buildProviders(context context.Context, cfg *config.Config, log *slog.Logger) auth.Providers {
	var enabled []auth.Provider
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		google, err := auth.NewGoogleProvider(context, auth.ClientOptions{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
		})
		if err != nil {
			log.Error("oauth_provider_unavailable", slog.String("provider", "google"), slog.Any("error", err))
		} else {
			enabled = append(enabled, google)
		}
	}

	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		enabled = append(enabled, auth.NewGitHubProvider(auth.ClientOptions{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  baseURL + "/auth/github/callback",
		}))
	}

	for _, provider := range enabled {
		log.Info("oauth_provider_enabled", slog.String("provider", provider.Name()))
	}
	return auth.NewProviders(enabled...)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
