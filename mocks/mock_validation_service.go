package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"formflow/internal/service"
	"formflow/internal/validator"
)

// MockValidationService is a mock implementation of service.ValidationService.
type MockValidationService struct {
	mock.Mock
}

func (m *MockValidationService) ListActivities(ctx context.Context, processKey string) ([]string, error) {
	args := m.Called(ctx, processKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockValidationService) BuildTemplate(ctx context.Context, processKey, activityKey, containerID string) (*validator.SubmissionTemplate, error) {
	args := m.Called(ctx, processKey, activityKey, containerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validator.SubmissionTemplate), args.Error(1)
}

func (m *MockValidationService) Validate(ctx context.Context, input service.ValidateInput) (*validator.Validation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validator.Validation), args.Error(1)
}
