package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/plantapi/internal/rowjson"
)

const (
	listProductionQuery      = `SELECT id, sector, weight, recorded_at FROM production ORDER BY id ASC`
	listAnnualShipmentsQuery = `SELECT month, value FROM annual_shipment ORDER BY month ASC`
	insertAnnualShipmentStmt = `INSERT INTO annual_shipment (month, value) VALUES (?, ?)`
	insertProductionStmt     = `INSERT INTO production (sector, weight) VALUES (?, ?)`
)

// ListProduction returns all production records ordered by id
func (s *session) ListProduction(ctx context.Context) ([]rowjson.Row, error) {
	return s.list(ctx, "list production", listProductionQuery)
}

// ListAnnualShipments returns all shipment records ordered by month
func (s *session) ListAnnualShipments(ctx context.Context) ([]rowjson.Row, error) {
	return s.list(ctx, "list annual shipments", listAnnualShipmentsQuery)
}

func (s *session) list(ctx context.Context, op, query string) ([]rowjson.Row, error) {
	rows, err := s.query(ctx, query)
	if err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}

	return result, nil
}

// InsertAnnualShipment stores one shipment row. month must already be
// normalized to YYYY-MM-DD.
func (s *session) InsertAnnualShipment(ctx context.Context, month string, value float64) error {
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.dialect.rebind(insertAnnualShipmentStmt), month, value)
		return err
	})
	if err != nil {
		return &QueryError{Op: "insert annual shipment", Err: err}
	}

	log.Debug().Str("month", month).Float64("value", value).Msg("Annual shipment recorded")
	return nil
}

type seedProduction struct {
	Sector string
	Weight float64
}

type seedShipment struct {
	Month string
	Value float64
}

var (
	demoProduction = []seedProduction{
		{Sector: "Corte", Weight: 32000},
		{Sector: "Laminação", Weight: 22000},
		{Sector: "Expedição", Weight: 40000},
	}
	demoShipments = []seedShipment{
		{Month: "2024-01-01", Value: 120000},
		{Month: "2024-02-01", Value: 90000},
	}
)

// Seed inserts demo rows into tables that are still empty.
func (s *session) Seed(ctx context.Context) error {
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		empty, err := tableEmpty(ctx, tx, "production")
		if err != nil {
			return err
		}
		if empty {
			for _, p := range demoProduction {
				if _, err := tx.ExecContext(ctx, s.dialect.rebind(insertProductionStmt), p.Sector, p.Weight); err != nil {
					return fmt.Errorf("failed to seed production %s: %w", p.Sector, err)
				}
			}
		}

		empty, err = tableEmpty(ctx, tx, "annual_shipment")
		if err != nil {
			return err
		}
		if empty {
			for _, sh := range demoShipments {
				if _, err := tx.ExecContext(ctx, s.dialect.rebind(insertAnnualShipmentStmt), sh.Month, sh.Value); err != nil {
					return fmt.Errorf("failed to seed shipment %s: %w", sh.Month, err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return &QueryError{Op: "seed demo data", Err: err}
	}

	log.Info().Msg("Demo data seeded")
	return nil
}

func tableEmpty(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count == 0, nil
}
