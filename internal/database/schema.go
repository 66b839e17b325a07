package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const sqliteSchema = `
	-- Daily production per sector
	CREATE TABLE IF NOT EXISTS production (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sector TEXT NOT NULL,
		weight REAL NOT NULL,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Shipped value per month
	CREATE TABLE IF NOT EXISTS annual_shipment (
		month DATE NOT NULL,
		value REAL NOT NULL
	);
`

const postgresSchema = `
	-- Daily production per sector
	CREATE TABLE IF NOT EXISTS production (
		id SERIAL PRIMARY KEY,
		sector TEXT NOT NULL,
		weight NUMERIC(14,3) NOT NULL,
		recorded_at TIMESTAMPTZ DEFAULT now()
	);

	-- Shipped value per month
	CREATE TABLE IF NOT EXISTS annual_shipment (
		month DATE NOT NULL,
		value NUMERIC(16,2) NOT NULL
	);
`

func (d dialect) schema() string {
	if d.positional {
		return postgresSchema
	}
	return sqliteSchema
}

// InitSchema creates both tables when absent. Safe to run repeatedly.
func (s *session) InitSchema(ctx context.Context) error {
	log.Info().Str("driver", s.dialect.name).Msg("Initializing database schema")

	err := s.transaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range splitSQLStatements(s.dialect.schema()) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return &QueryError{Op: "initialize schema", Err: err}
	}

	log.Info().Msg("Database schema ready")
	return nil
}

// splitSQLStatements splits a SQL string into individual statements.
// It handles comments and only returns non-empty statements.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	lines := strings.SplitSeq(sql, "\n")
	for line := range lines {
		trimmed := strings.TrimSpace(line)
		// Skip empty lines and comments
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	// Trailing statement without semicolon
	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
