package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"formflow/internal/config"
	"formflow/internal/domain"
	"formflow/internal/port"
	"formflow/internal/validator"
)

// ValidateInput is the DTO for a validation request.
type ValidateInput struct {
	ProcessKey  string
	ActivityKey string
	ContainerID string
	Field       string
	InstanceID  *uuid.UUID
	TaskID      string
	Submission  domain.Submission
	Principal   domain.Principal
	// Strict overrides the configured default when set.
	Strict       *bool
	ThrowOnError *bool
}

// ValidationService defines the submission validation contract.
type ValidationService interface {
	ListActivities(ctx context.Context, processKey string) ([]string, error)
	BuildTemplate(ctx context.Context, processKey, activityKey, containerID string) (*validator.SubmissionTemplate, error)
	Validate(ctx context.Context, input ValidateInput) (*validator.Validation, error)
}

type validationService struct {
	activityRepo port.ActivityRepository
	instanceRepo port.InstanceRepository
	factory      *validator.Factory
	engine       *validator.Engine
	cfg          config.ValidationConfig
	logger       *log.Logger
}

// NewValidationService creates a new ValidationService implementation.
func NewValidationService(
	activityRepo port.ActivityRepository,
	instanceRepo port.InstanceRepository,
	factory *validator.Factory,
	engine *validator.Engine,
	cfg config.ValidationConfig,
	logger *log.Logger,
) ValidationService {
	if logger == nil {
		logger = log.Default()
	}
	return &validationService{
		activityRepo: activityRepo,
		instanceRepo: instanceRepo,
		factory:      factory,
		engine:       engine,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *validationService) ListActivities(ctx context.Context, processKey string) ([]string, error) {
	keys, err := s.activityRepo.ListActivityKeys(ctx, processKey)
	if err != nil {
		if errors.Is(err, domain.ErrNoDeployment) {
			return nil, &domain.ConfigurationError{ProcessKey: processKey, Err: err}
		}
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return keys, nil
}

func (s *validationService) BuildTemplate(ctx context.Context, processKey, activityKey, containerID string) (*validator.SubmissionTemplate, error) {
	activity, err := s.activityRepo.GetActivity(ctx, processKey, activityKey)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) || errors.Is(err, domain.ErrNoDeployment) ||
			errors.Is(err, domain.ErrInvalidFieldConfig) {
			return nil, &domain.ConfigurationError{ProcessKey: processKey, ActivityKey: activityKey, Err: err}
		}
		return nil, fmt.Errorf("loading activity: %w", err)
	}
	return s.factory.Build(ctx, activity, containerID)
}

func (s *validationService) Validate(ctx context.Context, input ValidateInput) (*validator.Validation, error) {
	tmpl, err := s.BuildTemplate(ctx, input.ProcessKey, input.ActivityKey, input.ContainerID)
	if err != nil {
		return nil, err
	}

	var instance *domain.Instance
	if input.InstanceID != nil {
		instance, err = s.instanceRepo.GetByID(ctx, *input.InstanceID)
		if err != nil {
			return nil, err
		}
		if instance.ProcessKey != input.ProcessKey {
			return nil, domain.ErrInstanceNotFound
		}
	}

	var task *domain.Task
	if instance != nil && input.TaskID != "" {
		task = &domain.Task{ID: input.TaskID, ActivityKey: input.ActivityKey, AssigneeID: input.Principal.ID}
	}

	strict := s.cfg.Strict
	if input.Strict != nil {
		strict = *input.Strict
	}
	throwOnError := s.cfg.ThrowOnError
	if input.ThrowOnError != nil {
		throwOnError = *input.ThrowOnError
	}

	result, err := s.engine.Validate(ctx, validator.Request{
		Instance:     instance,
		Task:         task,
		Submission:   input.Submission,
		Template:     tmpl,
		Principal:    input.Principal,
		APIVersion:   s.cfg.APIVersion,
		Field:        input.Field,
		Strict:       strict,
		ThrowOnError: throwOnError,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidationFailed) {
			s.logger.Info("submission rejected",
				"process", input.ProcessKey, "activity", input.ActivityKey, "principal", input.Principal.ID)
		}
		return nil, err
	}

	s.logger.Info("submission validated",
		"process", input.ProcessKey, "activity", input.ActivityKey,
		"principal", input.Principal.ID, "has_error", result.HasError)
	return result, nil
}
