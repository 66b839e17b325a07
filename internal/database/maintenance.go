package database

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats.
// It is a no-op on Postgres.
func (s *session) Optimize(ctx context.Context) error {
	if s.dialect.positional {
		log.Debug().Msg("Skipping optimize: not a sqlite database")
		return nil
	}

	if _, err := s.exec(ctx, "PRAGMA optimize"); err != nil {
		return &QueryError{Op: "optimize database", Err: err}
	}

	return nil
}

// Vacuum rebuilds the database file to reclaim unused space.
// It is a no-op on Postgres.
func (s *session) Vacuum(ctx context.Context) error {
	if s.dialect.positional {
		log.Debug().Msg("Skipping vacuum: not a sqlite database")
		return nil
	}

	if _, err := s.exec(ctx, "VACUUM"); err != nil {
		return &QueryError{Op: "vacuum database", Err: err}
	}

	return nil
}
