package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	App        AppConfig
	Auth       AuthConfig
	Slug       SlugConfig
	Pagination PaginationConfig
	RateLimit  RateLimitConfig
	Events     EventsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	BaseURL         string        `envconfig:"SERVER_BASE_URL" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins     []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
	CORSAllowAll    bool          `envconfig:"CORS_ALLOW_ALL_ORIGINS" default:"false"`
	// TrustedProxies lists the addresses or CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if _, err := c.ProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// ProxyPrefixes parses TrustedProxies. A bare address is a single-host prefix.
func (c *ServerConfig) ProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// AllowedOrigins returns the CORS origin list; nil means every origin.
func (c *ServerConfig) AllowedOrigins() []string {
	if c.CORSAllowAll {
		return nil
	}
	return c.CORSOrigins
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"127.0.0.1"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Name     string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
	Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`      // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`     // debug, info, warn, error
	ServiceName string `envconfig:"SERVICE_NAME" default:"blogapi"`
	Version     string `envconfig:"SERVICE_VERSION" default:"dev"`
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// AuthConfig holds token issuing configuration.
type AuthConfig struct {
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer          string        `envconfig:"JWT_ISSUER" default:"blogapi"`
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TTL" default:"720h"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TTL" default:"2160h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"10"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("jwt secret must be at least 16 characters")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token ttl must be positive")
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		return fmt.Errorf("refresh token ttl (%s) cannot be shorter than access token ttl (%s)", c.RefreshTokenTTL, c.AccessTokenTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}

// maxSlugColumn is the width of articles.slug.
const maxSlugColumn = 280

// SlugConfig controls article slug allocation.
type SlugConfig struct {
	MaxLength          int    `envconfig:"SLUG_MAX_LENGTH" default:"280"`
	MaxAttempts        int    `envconfig:"SLUG_MAX_ATTEMPTS" default:"1000"`
	MaxRetries         int    `envconfig:"SLUG_MAX_RETRIES" default:"3"`
	Fallback           string `envconfig:"SLUG_FALLBACK" default:"untitled"`
	Transliterate      bool   `envconfig:"SLUG_TRANSLITERATE" default:"true"`
	RevalidateOnUpdate bool   `envconfig:"SLUG_REVALIDATE_ON_SAVE" default:"false"`
}

// Validate validates the slug configuration.
func (c *SlugConfig) Validate() error {
	if c.MaxLength < 16 || c.MaxLength > maxSlugColumn {
		return fmt.Errorf("slug max length must be between 16 and %d, got %d", maxSlugColumn, c.MaxLength)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("slug max attempts must be positive")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("slug max retries must be positive")
	}
	if c.Fallback == "" {
		return fmt.Errorf("slug fallback cannot be empty")
	}
	return nil
}

// PaginationConfig holds list endpoint defaults.
type PaginationConfig struct {
	PageSize    int `envconfig:"PAGE_SIZE" default:"10"`
	MaxPageSize int `envconfig:"MAX_PAGE_SIZE" default:"100"`
}

// Validate validates the pagination configuration.
func (c *PaginationConfig) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("max page size (%d) cannot be smaller than page size (%d)", c.MaxPageSize, c.PageSize)
	}
	return nil
}

// RateLimitConfig holds request throttling configuration. When RedisAddr is
// empty the limiter keeps its counters in process memory.
type RateLimitConfig struct {
	Enabled       bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Requests      int           `envconfig:"RATE_LIMIT_REQUESTS" default:"1000"`
	Window        time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
}

// Validate validates the rate limit configuration.
func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Requests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}
	if c.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	return nil
}

// EventsConfig holds the like-event publisher configuration. An empty
// AMQPURL disables publishing.
type EventsConfig struct {
	AMQPURL string `envconfig:"RABBITMQ_URL"`
	Queue   string `envconfig:"RABBITMQ_QUEUE" default:"like.queue"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	if c.AMQPURL != "" && c.Queue == "" {
		return fmt.Errorf("queue name is required when RabbitMQ is configured")
	}
	return nil
}

type section struct {
	name     string
	target   any
	validate func() error
}

// Load loads configuration from environment variables only.
// .env loading happens in the app package for development and test.
func Load() (*Config, error) {
	cfg := &Config{}

	sections := []section{
		{"Server", &cfg.Server, cfg.Server.Validate},
		{"Database", &cfg.Database, cfg.Database.Validate},
		{"App", &cfg.App, cfg.App.Validate},
		{"Auth", &cfg.Auth, cfg.Auth.Validate},
		{"Slug", &cfg.Slug, cfg.Slug.Validate},
		{"Pagination", &cfg.Pagination, cfg.Pagination.Validate},
		{"RateLimit", &cfg.RateLimit, cfg.RateLimit.Validate},
		{"Events", &cfg.Events, cfg.Events.Validate},
	}

	for _, s := range sections {
		if err := envconfig.Process("", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", s.name, err)
		}
	}

	return cfg, nil
}
