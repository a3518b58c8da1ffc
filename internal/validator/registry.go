package validator

import (
	"context"
	"sort"

	"formflow/internal/domain"
	"formflow/internal/port"
)

// OptionRegistry maps IS_LIMITED_TO resolver names to option providers.
// It is populated during wiring and only read afterwards. Names that were
// never registered are handed to the resolver, if one is set.
type OptionRegistry struct {
	providers map[string]port.OptionProvider
	resolve   func(name string) port.OptionProvider
}

// NewOptionRegistry creates an empty OptionRegistry.
func NewOptionRegistry() *OptionRegistry {
	return &OptionRegistry{providers: make(map[string]port.OptionProvider)}
}

// Register adds a provider to the registry, replacing one with the same name.
func (r *OptionRegistry) Register(p port.OptionProvider) {
	r.providers[p.Name()] = p
}

// SetResolver installs a lookup for names that were not registered up front.
func (r *OptionRegistry) SetResolver(resolve func(name string) port.OptionProvider) {
	r.resolve = resolve
}

// Get returns the provider for a given name, or nil if not found.
func (r *OptionRegistry) Get(name string) port.OptionProvider {
	if r == nil {
		return nil
	}
	if p, ok := r.providers[name]; ok {
		return p
	}
	if r.resolve != nil {
		return r.resolve(name)
	}
	return nil
}

// Names returns all registered provider names, sorted.
func (r *OptionRegistry) Names() []string {
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type staticOptions struct {
	name    string
	options []domain.Option
}

// StaticOptions returns a provider serving a fixed option list.
func StaticOptions(name string, options ...domain.Option) port.OptionProvider {
	return &staticOptions{name: name, options: append([]domain.Option(nil), options...)}
}

func (s *staticOptions) Name() string { return s.name }

func (s *staticOptions) Options(_ context.Context) ([]domain.Option, error) {
	return s.options, nil
}
