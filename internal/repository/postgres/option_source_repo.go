package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"formflow/internal/domain"
	"formflow/internal/port"
)

// OptionSourceRepo serves the option lists stored in option_values.
type OptionSourceRepo struct {
	db *sqlx.DB
}

// NewOptionSourceRepo creates a new PostgreSQL-backed option source repository.
func NewOptionSourceRepo(db *sqlx.DB) *OptionSourceRepo {
	return &OptionSourceRepo{db: db}
}

// Names returns every distinct source name, sorted.
func (r *OptionSourceRepo) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.SelectContext(ctx, &names,
		`SELECT DISTINCT source FROM option_values ORDER BY source`); err != nil {
		return nil, fmt.Errorf("optionSourceRepo.Names: %w", err)
	}
	return names, nil
}

// Provider returns an OptionProvider reading the named source on every call.
// A source without rows reports domain.ErrNotFound.
func (r *OptionSourceRepo) Provider(name string) port.OptionProvider {
	return &optionSource{db: r.db, name: name}
}

type optionSource struct {
	db   *sqlx.DB
	name string
}

func (s *optionSource) Name() string { return s.name }

func (s *optionSource) Options(ctx context.Context) ([]domain.Option, error) {
	var options []domain.Option
	if err := s.db.SelectContext(ctx, &options,
		`SELECT value, label FROM option_values WHERE source = $1 ORDER BY ordinal, value`, s.name); err != nil {
		return nil, fmt.Errorf("optionSource.Options %s: %w", s.name, err)
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("optionSource.Options %s: %w", s.name, domain.ErrNotFound)
	}
	return options, nil
}
