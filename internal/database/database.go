package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/saltyorg/plantapi/internal/config"
)

const defaultConnectTimeout = 10 * time.Second

// Provider opens one short-lived store connection per request.
// Connections are never pooled or shared between callers.
type Provider struct {
	dialect        dialect
	sqlitePath     string
	pgConfig       *pgx.ConnConfig
	connectTimeout time.Duration
}

// New resolves the store settings into a Provider. It does not connect;
// configuration problems surface as a ConnectionError.
func New(cfg config.Database) (*Provider, error) {
	p := &Provider{connectTimeout: cfg.ConnectTimeout}
	if p.connectTimeout <= 0 {
		p.connectTimeout = defaultConnectTimeout
	}

	switch cfg.ResolvedDriver() {
	case config.DriverSQLite:
		if cfg.Path == "" {
			return nil, &ConnectionError{Err: fmt.Errorf("sqlite database path is empty")}
		}
		p.dialect = sqliteDialect
		p.sqlitePath = cfg.Path
	case config.DriverPostgres:
		dsn, err := PostgresDSN(cfg)
		if err != nil {
			return nil, &ConnectionError{Err: err}
		}
		pgConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, &ConnectionError{Err: fmt.Errorf("failed to parse postgres connection string: %w", err)}
		}
		pgConfig.ConnectTimeout = p.connectTimeout
		p.dialect = postgresDialect
		p.pgConfig = pgConfig
	default:
		return nil, &ConnectionError{Err: fmt.Errorf("unknown database driver %q", cfg.Driver)}
	}

	return p, nil
}

// Driver returns the dialect name in use
func (p *Provider) Driver() string {
	return p.dialect.name
}

// Acquire opens a dedicated connection and verifies it with a ping.
// The caller owns the returned Session and must Close it.
func (p *Provider) Acquire(ctx context.Context) (Session, error) {
	conn, err := p.open()
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	// A single connection, discarded on Close
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, p.connectTimeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Debug().Err(closeErr).Msg("Failed to close connection after ping failure")
		}
		return nil, &ConnectionError{Err: fmt.Errorf("failed to ping database: %w", err)}
	}

	log.Trace().Str("driver", p.dialect.name).Msg("Database connection acquired")

	return &session{conn: conn, dialect: p.dialect}, nil
}

func (p *Provider) open() (*sql.DB, error) {
	switch p.dialect.name {
	case config.DriverPostgres:
		return stdlib.OpenDB(*p.pgConfig), nil
	default:
		conn, err := sql.Open("sqlite", sqliteDSN(p.sqlitePath))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return conn, nil
	}
}

// sqliteDSN enables WAL mode with a 5s busy timeout
func sqliteDSN(path string) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}
