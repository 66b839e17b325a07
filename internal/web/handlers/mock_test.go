package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/saltyorg/plantapi/internal/database"
	"github.com/saltyorg/plantapi/internal/rowjson"
)

type MockOpener struct {
	mock.Mock
}

func (m *MockOpener) Acquire(ctx context.Context) (database.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(database.Session), args.Error(1)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) ListProduction(ctx context.Context) ([]rowjson.Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rowjson.Row), args.Error(1)
}

func (m *MockSession) ListAnnualShipments(ctx context.Context) ([]rowjson.Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rowjson.Row), args.Error(1)
}

func (m *MockSession) InsertAnnualShipment(ctx context.Context, month string, value float64) error {
	return m.Called(ctx, month, value).Error(0)
}

func (m *MockSession) InitSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSession) Seed(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSession) Optimize(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSession) Vacuum(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSession) Close() error {
	return m.Called().Error(0)
}
