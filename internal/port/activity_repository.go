package port

import (
	"context"

	"github.com/google/uuid"

	"formflow/internal/domain"
)

// ActivityRepository provides read-only process/activity metadata.
type ActivityRepository interface {
	GetActivity(ctx context.Context, processKey, activityKey string) (*domain.Activity, error)
	ListActivityKeys(ctx context.Context, processKey string) ([]string, error)
}

// InstanceRepository provides the data already stored for a process instance.
type InstanceRepository interface {
	GetByID(ctx context.Context, instanceID uuid.UUID) (*domain.Instance, error)
}
