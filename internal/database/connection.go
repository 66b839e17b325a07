package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/plantapi/internal/config"
)

// dialect captures the differences between the supported stores
type dialect struct {
	name       string
	positional bool // $1, $2... instead of ?
}

var (
	sqliteDialect   = dialect{name: config.DriverSQLite}
	postgresDialect = dialect{name: config.DriverPostgres, positional: true}
)

// rebind rewrites ? placeholders for dialects that use positional ones.
func (d dialect) rebind(query string) string {
	if !d.positional || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type session struct {
	conn    *sql.DB
	dialect dialect

	closeOnce sync.Once
	closeErr  error
}

func (s *session) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.conn.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *session) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.conn.QueryContext(ctx, s.dialect.rebind(query), args...)
}

// transaction wraps fn in a transaction, rolling back when fn fails
func (s *session) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close releases the underlying connection
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
		log.Trace().Str("driver", s.dialect.name).Msg("Database connection released")
	})
	return s.closeErr
}
