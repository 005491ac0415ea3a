// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/quillpost/internal/core/blog"
	"github.com/taibuivan/quillpost/internal/core/comment"
	"github.com/taibuivan/quillpost/internal/core/like"
	"github.com/taibuivan/quillpost/internal/core/post"
	"github.com/taibuivan/quillpost/internal/platform/config"
	"github.com/taibuivan/quillpost/internal/platform/constants"
	"github.com/taibuivan/quillpost/internal/platform/metrics"
	"github.com/taibuivan/quillpost/internal/platform/middleware"
	"github.com/taibuivan/quillpost/internal/users/account"
	"github.com/taibuivan/quillpost/internal/users/auth"
	"github.com/taibuivan/quillpost/internal/users/notification"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login, logout, password reset and social login.
	Auth *auth.Handler

	// Account handles registration, verification, profile and account moderation.
	Account *account.Handler

	Blog         *blog.Handler
	Post         *post.Handler
	Comment      *comment.Handler
	Like         *like.Handler
	Notification *notification.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	principals middleware.PrincipalResolver,
	collector *metrics.Metrics,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(collector.Middleware)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health checks for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	// # Application API
	// Every route below sees the session principal, resolved once per request.
	r.Group(func(api chi.Router) {
		api.Use(middleware.LoadPrincipal(principals))

		api.Mount("/account", h.Account.Routes())
		api.Route("/blog", h.Blog.RegisterRoutes)
		api.Route("/post", h.Post.RegisterRoutes)
		api.Route("/comment", h.Comment.RegisterRoutes)
		api.Route("/like", h.Like.RegisterRoutes)
		api.Route("/notification", h.Notification.RegisterRoutes)
		api.Mount("/", h.Auth.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
