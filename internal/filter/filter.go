package filter

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"formflow/internal/domain"
	"formflow/internal/port"
)

// RestrictedFilter is the default port.DataFilter. Submissions are copied
// with text trimmed. Stored data is narrowed to the requested fields, and
// restricted fields are hidden from principals without the reader role.
type RestrictedFilter struct {
	readerRole string
	logger     *log.Logger
}

// NewRestrictedFilter creates a filter that lets principals holding
// readerRole see restricted stored values.
func NewRestrictedFilter(readerRole string, logger *log.Logger) port.DataFilter {
	if logger == nil {
		logger = log.Default()
	}
	return &RestrictedFilter{readerRole: readerRole, logger: logger}
}

func (f *RestrictedFilter) ProjectSubmission(_ context.Context, _ *domain.Instance, submission domain.Submission, principal domain.Principal, reason string) (domain.Submission, error) {
	out := make(domain.Submission, len(submission))
	for name, values := range submission {
		projected := make([]domain.Value, 0, len(values))
		for _, v := range values {
			if v.Kind == domain.ValueKindText || v.Kind == "" {
				v = domain.TextValue(strings.TrimSpace(v.Text))
			}
			projected = append(projected, v)
		}
		out[name] = projected
	}
	f.logger.Debug("projected submission", "principal", principal.ID, "reason", reason, "keys", len(out))
	return out, nil
}

func (f *RestrictedFilter) ProjectInstance(_ context.Context, instance *domain.Instance, _ *domain.Task, fields []domain.Field, principal domain.Principal, apiVersion, reason string, allowAny bool) (domain.Submission, error) {
	out := domain.Submission{}
	if instance == nil {
		return out, nil
	}
	canRead := f.readerRole == "" || principal.HasRole(f.readerRole)

	if allowAny {
		for name, values := range instance.Data {
			out[name] = append([]domain.Value(nil), values...)
		}
	}
	for _, field := range fields {
		values, ok := instance.Data[field.Name]
		if !ok {
			continue
		}
		if field.Restricted && !canRead {
			delete(out, field.Name)
			continue
		}
		out[field.Name] = append([]domain.Value(nil), values...)
	}
	f.logger.Debug("projected instance",
		"instance", instance.ID, "principal", principal.ID, "api_version", apiVersion, "reason", reason, "keys", len(out))
	return out, nil
}
