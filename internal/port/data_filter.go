package port

import (
	"context"

	"formflow/internal/domain"
)

// DataFilter projects submitted and stored data for a principal, redacting
// restricted values the principal is not allowed to see.
type DataFilter interface {
	ProjectSubmission(ctx context.Context, instance *domain.Instance, submission domain.Submission, principal domain.Principal, reason string) (domain.Submission, error)
	ProjectInstance(ctx context.Context, instance *domain.Instance, task *domain.Task, fields []domain.Field, principal domain.Principal, apiVersion, reason string, allowAny bool) (domain.Submission, error)
}
