package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"formflow/internal/domain"
)

// MockActivityRepo is a mock implementation of port.ActivityRepository.
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) GetActivity(ctx context.Context, processKey, activityKey string) (*domain.Activity, error) {
	args := m.Called(ctx, processKey, activityKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockActivityRepo) ListActivityKeys(ctx context.Context, processKey string) ([]string, error) {
	args := m.Called(ctx, processKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
