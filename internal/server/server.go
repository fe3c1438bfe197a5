package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sundayezeilo/blogapi/internal/article"
	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/comment"
	"github.com/sundayezeilo/blogapi/internal/config"
	"github.com/sundayezeilo/blogapi/internal/httpx"
	"github.com/sundayezeilo/blogapi/internal/like"
	"github.com/sundayezeilo/blogapi/internal/user"
)

// Handlers groups the HTTP handlers of every resource.
type Handlers struct {
	Auth     *auth.Handler
	Users    *user.Handler
	Articles *article.Handler
	Comments *comment.Handler
	Likes    *like.Handler
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the middleware chain needs.
type Deps struct {
	Verifier auth.Verifier
	Profiles user.ProfileEnsurer
	// Limiter is optional; nil disables rate limiting.
	Limiter httpx.RateLimiter
	// DB is optional; when set the health check pings it.
	DB Pinger
}

// Server represents the HTTP server with all dependencies.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	handlers Handlers
	deps     Deps
	server   *http.Server
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger, handlers Handlers, deps Deps) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		deps:     deps,
	}
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.applyMiddleware(s.setupRoutes())
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting http server",
			"addr", s.server.Addr,
			"env", s.config.App.Environment,
		)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down")
		return s.stop()

	case sig := <-shutdown:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.stop()
	}
}

func (s *Server) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		// Force close if graceful shutdown fails
		if closeErr := s.server.Close(); closeErr != nil {
			return fmt.Errorf("failed to close server: %w", closeErr)
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	h := s.handlers

	authed := func(fn http.HandlerFunc) http.Handler {
		return auth.RequireAuth(fn)
	}
	// Likes need a profile row; older accounts may predate it.
	withProfile := func(fn http.HandlerFunc) http.Handler {
		return auth.RequireAuth(user.EnsureProfile(s.deps.Profiles, s.logger)(fn))
	}

	mux.HandleFunc("GET /x/health", s.healthCheckHandler)

	// Tokens
	mux.HandleFunc("POST /api/token/{$}", h.Auth.Obtain)
	mux.HandleFunc("POST /api/token/refresh/{$}", h.Auth.Refresh)
	mux.HandleFunc("POST /token/{$}", h.Auth.Obtain)
	mux.HandleFunc("POST /token/refresh/{$}", h.Auth.Refresh)

	// Accounts and profiles
	mux.HandleFunc("POST /api/auth/{$}", h.Users.Register)
	mux.Handle("GET /api/auth/me/{$}", authed(h.Users.Me))
	mux.Handle("PATCH /api/auth/me/{$}", authed(h.Users.UpdateMe))
	mux.Handle("GET /api/auth/{id}/{$}", authed(h.Users.GetUser))
	mux.Handle("PATCH /api/auth/{id}/{$}", authed(h.Users.UpdateUser))
	mux.HandleFunc("GET /api/user-profiles/{$}", h.Users.ListProfiles)
	mux.HandleFunc("GET /api/user-profiles/{id}/{$}", h.Users.GetProfile)
	mux.Handle("PATCH /api/user-profiles/{id}/{$}", authed(h.Users.UpdateProfile))

	// Articles and tags
	mux.HandleFunc("GET /api/articles/{$}", h.Articles.List)
	mux.Handle("POST /api/articles/{$}", authed(h.Articles.Create))
	mux.HandleFunc("GET /api/articles/{id}/{$}", h.Articles.Get)
	mux.Handle("PUT /api/articles/{id}/{$}", authed(h.Articles.Replace))
	mux.Handle("PATCH /api/articles/{id}/{$}", authed(h.Articles.Patch))
	mux.Handle("DELETE /api/articles/{id}/{$}", authed(h.Articles.Delete))
	mux.HandleFunc("GET /api/tags/{$}", h.Articles.ListTags)
	mux.Handle("POST /api/tags/{$}", authed(h.Articles.CreateTag))

	// Comments
	mux.HandleFunc("GET /api/comments/{$}", h.Comments.List)
	mux.Handle("POST /api/comments/{$}", authed(h.Comments.Create))
	mux.HandleFunc("GET /api/comments/{id}/{$}", h.Comments.Get)
	mux.Handle("PATCH /api/comments/{id}/{$}", authed(h.Comments.Update))
	mux.Handle("PUT /api/comments/{id}/{$}", authed(h.Comments.Update))
	mux.Handle("DELETE /api/comments/{id}/{$}", authed(h.Comments.Delete))
	mux.HandleFunc("GET /api/articles/{id}/comments/{$}", h.Comments.ListForArticle)
	mux.Handle("POST /api/articles/{id}/comments/{$}", authed(h.Comments.CreateForArticle))

	// Likes
	mux.Handle("GET /api/post-user-likes/{$}", authed(h.Likes.List))
	mux.Handle("POST /api/post-user-likes/{$}", withProfile(h.Likes.Create))
	mux.Handle("GET /api/post-user-likes/{id}/{$}", authed(h.Likes.Get))
	mux.Handle("DELETE /api/post-user-likes/{id}/{$}", withProfile(h.Likes.Delete))

	return mux
}

// applyMiddleware wraps the handler with middleware in the correct order.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	middlewares := []httpx.Middleware{
		httpx.Recovery(s.logger), // Outermost: catch panics
		httpx.RequestID,
		httpx.Logger(s.logger),
		httpx.CORS(s.config.Server.AllowedOrigins()),
	}
	if s.deps.Limiter != nil {
		// Validated at config load.
		proxies, _ := s.config.Server.ProxyPrefixes()
		middlewares = append(middlewares, httpx.RateLimit(s.deps.Limiter, httpx.ClientIPBehind(proxies), s.logger))
	}
	middlewares = append(middlewares, auth.Authenticate(s.deps.Verifier, s.logger))

	return httpx.Chain(middlewares...)(handler)
}

// healthCheckHandler handles health check requests.
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":  "ok",
		"service": s.config.App.ServiceName,
		"version": s.config.App.Version,
	}

	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.DB.Ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "health check: database unreachable", "error", err.Error())
			body["status"] = "unavailable"
			httpx.WriteJSON(w, http.StatusServiceUnavailable, body)
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, body)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("shutdown timeout exceeded, forcing close")
			return s.server.Close()
		}
		return err
	}

	return nil
}
