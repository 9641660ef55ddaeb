package mocks

import (
	"context"

	"beatmap-cache/feature/beatmap/catalog"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of catalog.Client
type Client struct {
	mock.Mock
}

func (m *Client) Fetch(ctx context.Context, q catalog.Query) ([]catalog.RawBeatmap, error) {
	args := m.Called(ctx, q)
	if records, ok := args.Get(0).([]catalog.RawBeatmap); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}
