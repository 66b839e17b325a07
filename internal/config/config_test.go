package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the variables Parse reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "BIND", "STATIC_DIR",
		"DATABASE_URL", "DB_DRIVER", "DB_HOST", "DB_NAME", "DB_USER", "DB_PASS", "DB_PORT", "DB_PATH",
		"REQUEST_TIMEOUT", "CONNECT_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"LOG_LEVEL", "LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS", "LOG_COMPRESS",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "./dados.db", cfg.Database.Path)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.ResolvedDriver())
	assert.Equal(t, Timeouts{
		Request:  30 * time.Second,
		Connect:  10 * time.Second,
		Shutdown: 15 * time.Second,
	}, cfg.Timeouts)
	assert.Equal(t, cfg.Timeouts.Connect, cfg.Database.ConnectTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Compress)
	require.NoError(t, cfg.Validate())
}

func TestParse_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@db.example.com/plant")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.ResolvedDriver())
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Request)
	assert.Equal(t, ":8081", cfg.Addr())
}

func TestParse_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	_, err := Parse()
	require.Error(t, err)
}

func TestParseFrom_IgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("REQUEST_TIMEOUT", "1s")

	cfg, err := ParseFrom(map[string]string{"DB_PATH": "plant.db", "SHUTDOWN_TIMEOUT": "2s"})
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "plant.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Request)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Shutdown)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
}

func TestResolvedDriver(t *testing.T) {
	tests := []struct {
		name     string
		db       Database
		expected string
	}{
		{name: "explicit driver wins", db: Database{Driver: DriverSQLite, DatabaseURL: "postgres://x"}, expected: DriverSQLite},
		{name: "url implies postgres", db: Database{DatabaseURL: "postgres://x"}, expected: DriverPostgres},
		{name: "host implies postgres", db: Database{Host: "db"}, expected: DriverPostgres},
		{name: "nothing set", db: Database{}, expected: DriverSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.db.ResolvedDriver())
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := ParseFrom(map[string]string{"DB_PATH": "plant.db"})
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "invalid port"},
		{name: "bad bind", mutate: func(c *Config) { c.Bind = "localhost:1" }, wantErr: "invalid bind address"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: "unknown database driver"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: "DB_PATH is required"},
		{name: "postgres without target", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: "DATABASE_URL or DB_HOST"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeouts.Request = 0 }, wantErr: "timeouts must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
