package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds everything the process reads at start-up. It is built once
// and handed to constructors; nothing reads the environment after Load.
type Config struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Port           string        `env:"PORT" envDefault:"8083"`
	GinMode        string        `env:"GIN_MODE" envDefault:"debug"`
	SecretKey      string        `env:"SECRET_KEY"`
	AdminPath      string        `env:"ADMIN_PATH" envDefault:"admin"`
	SubmitKey      string        `env:"SUBMIT_KEY"`
	APIKey         string        `env:"TOPSECRET_API_KEY"`
	CSRFEnabled    bool          `env:"CSRF_ENABLED" envDefault:"true"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`

	Admin    AdminConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
}

// AdminConfig is the account seeded at start-up when both fields are set.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
}

type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN      string `env:"DATABASE_DSN" envDefault:"cafe.db"`
	LogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"10"`
}

// RedisConfig enables the listing cache when Addr is non-empty.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type CacheConfig struct {
	TTL    time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	Prefix string        `env:"CACHE_PREFIX" envDefault:"cafelist"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var reservedAdminPaths = map[string]bool{
	"add":     true,
	"api":     true,
	"healthz": true,
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalises AdminPath and rejects unusable settings.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}

	c.AdminPath = strings.Trim(c.AdminPath, "/")
	if c.AdminPath == "" {
		return errors.New("ADMIN_PATH must not be empty")
	}
	if strings.Contains(c.AdminPath, "/") {
		return fmt.Errorf("ADMIN_PATH must be a single path segment, got %q", c.AdminPath)
	}
	if reservedAdminPaths[c.AdminPath] {
		return fmt.Errorf("ADMIN_PATH %q collides with a public route", c.AdminPath)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	for _, origin := range c.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("ALLOWED_ORIGINS entry %q must start with http:// or https://", origin)
		}
	}

	if c.SessionTTL <= 0 {
		c.SessionTTL = 12 * time.Hour
	}
	return nil
}

// AdminRoot is the URL of the admin listing, e.g. "/admin".
func (c *Config) AdminRoot() string {
	return "/" + c.AdminPath
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
