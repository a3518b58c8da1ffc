package port

import (
	"context"

	"formflow/internal/domain"
)

// OptionProvider supplies the options of a field limited to an external
// value list (IS_LIMITED_TO constraints name the provider).
type OptionProvider interface {
	Name() string
	Options(ctx context.Context) ([]domain.Option, error)
}
