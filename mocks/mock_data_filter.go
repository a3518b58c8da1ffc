package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"formflow/internal/domain"
)

// MockDataFilter is a mock implementation of port.DataFilter.
type MockDataFilter struct {
	mock.Mock
}

func (m *MockDataFilter) ProjectSubmission(ctx context.Context, instance *domain.Instance, submission domain.Submission, principal domain.Principal, reason string) (domain.Submission, error) {
	args := m.Called(ctx, instance, submission, principal, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Submission), args.Error(1)
}

func (m *MockDataFilter) ProjectInstance(ctx context.Context, instance *domain.Instance, task *domain.Task, fields []domain.Field, principal domain.Principal, apiVersion, reason string, allowAny bool) (domain.Submission, error) {
	args := m.Called(ctx, instance, task, fields, principal, apiVersion, reason, allowAny)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Submission), args.Error(1)
}
