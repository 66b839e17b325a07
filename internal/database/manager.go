package database

import (
	"context"

	"github.com/saltyorg/plantapi/internal/rowjson"
)

// Opener is the entrypoint handlers use to reach the store.
type Opener interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session is one acquired store connection. Every method runs a single
// statement (schema and seed bootstrap excepted). Close releases the
// connection and is safe to call more than once.
type Session interface {
	ListProduction(ctx context.Context) ([]rowjson.Row, error)
	ListAnnualShipments(ctx context.Context) ([]rowjson.Row, error)
	InsertAnnualShipment(ctx context.Context, month string, value float64) error
	InitSchema(ctx context.Context) error
	Seed(ctx context.Context) error
	Optimize(ctx context.Context) error
	Vacuum(ctx context.Context) error
	Close() error
}

var _ Opener = (*Provider)(nil)
