package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sundayezeilo/blogapi/internal/article"
	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/comment"
	"github.com/sundayezeilo/blogapi/internal/config"
	"github.com/sundayezeilo/blogapi/internal/db/migrations"
	db "github.com/sundayezeilo/blogapi/internal/db/sqlc"
	"github.com/sundayezeilo/blogapi/internal/events"
	"github.com/sundayezeilo/blogapi/internal/httpx"
	"github.com/sundayezeilo/blogapi/internal/like"
	"github.com/sundayezeilo/blogapi/internal/ratelimit"
	"github.com/sundayezeilo/blogapi/internal/server"
	"github.com/sundayezeilo/blogapi/internal/user"
	"github.com/sundayezeilo/blogapi/sluggen"
)

// App holds the application dependencies and configuration.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBPool    *pgxpool.Pool
	Server    *server.Server
	Publisher events.Publisher

	closers []io.Closer
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
	)

	dbPool, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.Migrate {
		applied, err := migrations.Up(ctx, dbPool, logger)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Info("migrations applied", "count", len(applied))
	}

	a := &App{Config: cfg, Logger: logger, DBPool: dbPool}
	a.Server = a.wire(ctx, dbPool)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	return a, nil
}

// Wire builds every component on top of pool. It is exported for tests that
// bring their own database.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) *App {
	a := &App{Config: cfg, Logger: logger, DBPool: pool}
	a.Server = a.wire(ctx, pool)
	return a
}

func (a *App) wire(ctx context.Context, pool *pgxpool.Pool) *server.Server {
	cfg, logger := a.Config, a.Logger
	queries := db.New(pool)

	users := user.NewService(user.NewRepository(queries), &user.ServiceConfig{
		BcryptCost: cfg.Auth.BcryptCost,
	})
	issuer := auth.NewIssuer(auth.IssuerConfig{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})

	articles := article.NewService(article.NewPostgresRepository(pool), &article.ServiceConfig{
		Slugs: &sluggen.Allocator{
			MaxLength:     cfg.Slug.MaxLength,
			MaxAttempts:   cfg.Slug.MaxAttempts,
			Fallback:      cfg.Slug.Fallback,
			Transliterate: cfg.Slug.Transliterate,
		},
		MaxRetries:         cfg.Slug.MaxRetries,
		RevalidateOnUpdate: cfg.Slug.RevalidateOnUpdate,
		Logger:             logger,
	})

	comments := comment.NewService(comment.NewRepository(queries))

	a.Publisher = a.setupPublisher()
	likes := like.NewService(like.NewRepository(queries), like.ServiceConfig{
		Publisher: a.Publisher,
		Logger:    logger,
	})

	base, page, maxPage := cfg.Server.BaseURL, cfg.Pagination.PageSize, cfg.Pagination.MaxPageSize
	handlers := server.Handlers{
		Auth: auth.NewHandler(users, issuer, logger),
		Users: user.NewHandler(user.HandlerConfig{
			Service: users, Logger: logger, BaseURL: base, PageSize: page, MaxPageSize: maxPage,
		}),
		Articles: article.NewHandler(article.HandlerConfig{
			Service: articles, Logger: logger, BaseURL: base, PageSize: page, MaxPageSize: maxPage,
		}),
		Comments: comment.NewHandler(comment.HandlerConfig{
			Service: comments, Logger: logger, BaseURL: base, PageSize: page, MaxPageSize: maxPage,
		}),
		Likes: like.NewHandler(like.HandlerConfig{
			Service: likes, Logger: logger, BaseURL: base, PageSize: page, MaxPageSize: maxPage,
		}),
	}

	return server.New(cfg, logger, handlers, server.Deps{
		Verifier: issuer,
		Profiles: users,
		Limiter:  a.setupLimiter(ctx),
		DB:       pool,
	})
}

// setupLimiter prefers Redis so limits hold across instances, and falls back
// to process memory when Redis is not configured or not reachable.
func (a *App) setupLimiter(ctx context.Context) httpx.RateLimiter {
	rl := a.Config.RateLimit
	if !rl.Enabled {
		a.Logger.Info("rate limiting disabled")
		return nil
	}

	if rl.RedisAddr != "" {
		limiter, err := ratelimit.NewRedis(ctx, ratelimit.RedisConfig{
			Addr:     rl.RedisAddr,
			Password: rl.RedisPassword,
			DB:       rl.RedisDB,
			Limit:    rl.Requests,
			Window:   rl.Window,
		})
		if err == nil {
			a.closers = append(a.closers, limiter)
			a.Logger.Info("rate limiting with redis", "addr", rl.RedisAddr, "limit", rl.Requests, "window", rl.Window)
			return limiter
		}
		a.Logger.Warn("redis unavailable, rate limiting in memory", "addr", rl.RedisAddr, "error", err.Error())
	}

	return ratelimit.NewMemory(rl.Requests, rl.Window)
}

// setupPublisher connects to RabbitMQ when configured. Like events are
// best effort, so a broker outage at startup only disables them.
func (a *App) setupPublisher() events.Publisher {
	ev := a.Config.Events
	if ev.AMQPURL == "" {
		return events.Nop{}
	}

	pub, err := events.DialAMQP(ev.AMQPURL, ev.Queue)
	if err != nil {
		a.Logger.Warn("rabbitmq unavailable, like events disabled", "error", err.Error())
		return events.Nop{}
	}
	a.Logger.Info("publishing like events", "queue", ev.Queue)
	return pub
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
		"base_url", a.Config.Server.BaseURL,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown releases the broker, limiter and database connections.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Logger.Warn("closing event publisher failed", "error", err.Error())
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.Warn("closing dependency failed", "error", err.Error())
		}
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}

	return nil
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found.")
		}
	}
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
