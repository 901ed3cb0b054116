// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// SweepDisabled turns the scheduled expiry sweep off. Requests still sweep
// opportunistically.
const SweepDisabled = "off"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Parse    ParseConfig
	Store    StoreConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds workbook upload settings.
type UploadConfig struct {
	// MaxFileSize caps the whole multipart request in bytes (default: 5MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"5242880"`

	// MaxFiles is the maximum number of workbooks per request (default: 20)
	MaxFiles int `env:"UPLOAD_MAX_FILES" default:"20"`

	// MaxConcurrent is the maximum number of uploads processed at once (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for an upload slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds parsing and storing one upload (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`
}

// ParseConfig holds workbook parsing settings.
type ParseConfig struct {
	// MaxWorkers is the number of workbooks decoded in parallel (default: 4)
	MaxWorkers int `env:"PARSE_MAX_WORKERS" default:"4"`

	// SheetLayout is the registered sheet layout version (default: v1)
	SheetLayout string `env:"PARSE_SHEET_LAYOUT" default:"v1"`

	// TagMatch is how block tags are screened: contains or exact (default: contains)
	TagMatch string `env:"PARSE_TAG_MATCH" default:"contains"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	// Backend is one of file, memory, redis, postgres (default: file)
	Backend string `env:"STORE_BACKEND" default:"file"`

	// Dir holds one JSON file per session for the file backend
	Dir string `env:"STORE_DIR" default:"storage/sessions"`

	RedisAddr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" default:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" default:"sched:"`

	// DatabaseURL is the PostgreSQL connection string for the postgres backend.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`
}

// SessionConfig holds session lifetime settings.
type SessionConfig struct {
	// MaxAge is how long a collection lives after its last write (default: 1h)
	MaxAge time.Duration `env:"SESSION_MAX_AGE" default:"1h"`

	// CookieName carries the session id between requests (default: sched_session)
	CookieName string `env:"SESSION_COOKIE" default:"sched_session"`

	// CookieSecure marks the session cookie Secure (default: false)
	CookieSecure bool `env:"SESSION_COOKIE_SECURE" default:"false"`

	// SweepSchedule is a cron spec for the background expiry sweep,
	// or "off" (default: @every 10m)
	SweepSchedule string `env:"SESSION_SWEEP_SCHEDULE" default:"@every 10m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for the upload endpoint (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// SweepEnabled reports whether a background sweep should be scheduled.
func (c *SessionConfig) SweepEnabled() bool {
	return c.SweepSchedule != "" && c.SweepSchedule != SweepDisabled
}
