package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"formflow/internal/domain"
)

// MockOptionProvider is a mock implementation of port.OptionProvider.
type MockOptionProvider struct {
	mock.Mock
}

func (m *MockOptionProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockOptionProvider) Options(ctx context.Context) ([]domain.Option, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Option), args.Error(1)
}
