package validator

import "formflow/internal/domain"

// EvaluateConstraint reports whether c holds against the data snapshot.
//
// Only ONLY_REQUIRED_WHEN is a predicate. The remaining constraint types are
// markers the factory turns into dedicated rules, so they always hold here.
// A nil constraint holds.
func EvaluateConstraint(snapshot domain.Submission, c *domain.Constraint) bool {
	if c == nil {
		return true
	}
	switch c.Type {
	case domain.ConstraintOnlyRequiredWhen:
		if c.ReferencedFieldName == "" {
			return false
		}
		values := domain.NonEmpty(snapshot.Values(c.ReferencedFieldName))
		if c.Value == "" {
			return len(values) > 0
		}
		for _, v := range values {
			if v.String() == c.Value {
				return true
			}
		}
		return false
	default:
		return true
	}
}
