package mocks

import (
	"context"

	"beatmap-cache/feature/beatmap/models"
	"beatmap-cache/feature/beatmap/store"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of store.Store
type Store struct {
	mock.Mock
}

func (m *Store) FindByMD5(ctx context.Context, md5 string) (*models.Beatmap, error) {
	args := m.Called(ctx, md5)
	if b, ok := args.Get(0).(*models.Beatmap); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) FindByID(ctx context.Context, id int) (*models.Beatmap, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*models.Beatmap); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) FindBySetID(ctx context.Context, setID int) ([]models.Beatmap, error) {
	args := m.Called(ctx, setID)
	if bs, ok := args.Get(0).([]models.Beatmap); ok {
		return bs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Upsert(ctx context.Context, b models.Beatmap) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *Store) DeleteByMD5(ctx context.Context, md5 string) error {
	args := m.Called(ctx, md5)
	return args.Error(0)
}

func (m *Store) IncrementCounters(ctx context.Context, md5 string, playDelta, passDelta int) error {
	args := m.Called(ctx, md5, playDelta, passDelta)
	return args.Error(0)
}

// Transaction runs fn against the mock itself unless an error is configured.
func (m *Store) Transaction(ctx context.Context, fn func(store.Store) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}
