package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Database holds the store connection settings.
// DatabaseURL takes precedence over the discrete Postgres parameters.
type Database struct {
	Driver      string `env:"DB_DRIVER"`
	DatabaseURL string `env:"DATABASE_URL"`
	Host        string `env:"DB_HOST"`
	Name        string `env:"DB_NAME" envDefault:"plant"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASS"`
	Port        int    `env:"DB_PORT" envDefault:"5432"`
	Path        string `env:"DB_PATH" envDefault:"./dados.db"`

	// ConnectTimeout bounds opening and pinging a connection.
	ConnectTimeout time.Duration
}

// ResolvedDriver returns the configured driver, inferring postgres when any
// networked setting is present and sqlite otherwise.
func (d Database) ResolvedDriver() string {
	if d.Driver != "" {
		return d.Driver
	}
	if d.DatabaseURL != "" || d.Host != "" {
		return DriverPostgres
	}
	return DriverSQLite
}

// Log holds logging settings
type Log struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Port      int    `env:"PORT" envDefault:"5000"`
	Bind      string `env:"BIND"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./static"`

	Database Database
	Timeouts Timeouts
	Log      Log
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	return parse(env.Options{})
}

// ParseFrom builds a Config from the given variables instead of the process
// environment. Unset keys take their envDefault values.
func ParseFrom(environment map[string]string) (*Config, error) {
	if environment == nil {
		environment = map[string]string{}
	}
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Database.ConnectTimeout = cfg.Timeouts.Connect
	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, fmt.Sprintf("%d", c.Port))
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}

	if c.Bind != "" {
		if ip := net.ParseIP(c.Bind); ip == nil {
			return fmt.Errorf("invalid bind address: %s", c.Bind)
		}
	}

	switch c.Database.ResolvedDriver() {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DatabaseURL == "" && c.Database.Host == "" {
			return fmt.Errorf("DATABASE_URL or DB_HOST is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Timeouts.Request <= 0 || c.Timeouts.Connect <= 0 || c.Timeouts.Shutdown <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}

	return nil
}
