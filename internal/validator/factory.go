package validator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/charmbracelet/log"

	"formflow/internal/domain"
)

// freeformTypes are the field types whose values are typed rather than picked
// from a list. Person is included so that it reaches the user check instead of
// the option check.
var freeformTypes = map[domain.FieldType]bool{
	domain.FieldTypeFile:     true,
	domain.FieldTypeEmail:    true,
	domain.FieldTypeNumber:   true,
	domain.FieldTypeText:     true,
	domain.FieldTypeTextarea: true,
	domain.FieldTypePerson:   true,
}

// Factory derives submission templates from activity metadata.
type Factory struct {
	options *OptionRegistry
	logger  *log.Logger
}

// NewFactory creates a template factory. options may be nil when no field
// uses an external option source.
func NewFactory(options *OptionRegistry, logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &Factory{options: options, logger: logger}
}

// Build derives the template for an activity, scoped to the container with id
// scopeID when one is given.
func (f *Factory) Build(ctx context.Context, activity *domain.Activity, scopeID string) (*SubmissionTemplate, error) {
	if activity == nil {
		return nil, &domain.ConfigurationError{Err: domain.ErrActivityNotFound}
	}

	parent := activity.Container(domain.ActionCreate)
	container := parent
	if scopeID != "" {
		container = parent.Find(scopeID)
	}

	var fields []domain.Field
	if container == nil {
		f.logger.Debug("no container resolved, validating every field",
			"process", activity.ProcessKey, "activity", activity.Key, "scope", scopeID)
		fields = allFields(activity)
	} else {
		fields = resolveFields(activity, gatherFieldIDs(parent, container))
	}

	var buttons []domain.Button
	if parent != nil {
		buttons = parent.Buttons
	}

	entries := make([]FieldRules, 0, len(fields))
	for _, field := range fields {
		if field.Deleted || !field.Editable {
			continue
		}
		rules, err := f.rulesFor(ctx, field)
		if err != nil {
			return nil, &domain.ConfigurationError{
				ProcessKey:  activity.ProcessKey,
				ActivityKey: activity.Key,
				Err:         err,
			}
		}
		entries = append(entries, FieldRules{Field: field, Rules: rules})
	}

	var opts []TemplateOption
	if activity.AllowAttachments {
		opts = append(opts, WithAttachments(activity.MaxAttachmentSize))
		if len(activity.Fields) == 0 && len(activity.Actions) == 0 {
			opts = append(opts, WithAllowAnyFields())
		}
	}
	return NewSubmissionTemplate(entries, buttons, opts...), nil
}

// gatherFieldIDs collects the field ids visible from container. A review step
// collects from every sibling up to and including itself.
func gatherFieldIDs(parent, container *domain.Container) []string {
	var ids []string
	if idx, ok := parent.ReviewIndex(); ok && container != parent && container.Ordinal == idx {
		for i := range parent.Children {
			if child := &parent.Children[i]; child.Ordinal <= idx {
				ids = collectFieldIDs(child, ids)
			}
		}
		return ids
	}
	return collectFieldIDs(container, ids)
}

func collectFieldIDs(c *domain.Container, ids []string) []string {
	ids = append(ids, c.FieldIDs...)
	for i := range c.Children {
		ids = collectFieldIDs(&c.Children[i], ids)
	}
	return ids
}

// resolveFields maps ids to fields, dropping unknown ids and duplicates while
// keeping first-seen order.
func resolveFields(activity *domain.Activity, ids []string) []domain.Field {
	seen := make(map[string]bool, len(ids))
	fields := make([]domain.Field, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		field, ok := activity.Fields[id]
		if !ok {
			continue
		}
		seen[id] = true
		fields = append(fields, field)
	}
	return fields
}

func allFields(activity *domain.Activity) []domain.Field {
	ids := make([]string, 0, len(activity.Fields))
	for id := range activity.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return resolveFields(activity, ids)
}

// rulesFor derives the ordered rule list of a single field.
func (f *Factory) rulesFor(ctx context.Context, field domain.Field) ([]Rule, error) {
	var gate *domain.Constraint
	for i := range field.Constraints {
		if field.Constraints[i].Type == domain.ConstraintOnlyRequiredWhen {
			c := field.Constraints[i]
			gate = &c
			break
		}
	}

	var rules []Rule
	var optionSource string
	for i := range field.Constraints {
		c := field.Constraints[i]
		switch c.Type {
		case domain.ConstraintOnlyRequiredWhen:
			rules = append(rules, Rule{Type: RuleConstrainedRequired, Field: field.Name, Gate: &c, Required: field.Required})
		case domain.ConstraintIsNumeric:
			rules = append(rules, Rule{Type: RuleNumeric, Field: field.Name})
		case domain.ConstraintIsEmailAddress:
			rules = append(rules, Rule{Type: RuleEmail, Field: field.Name})
		case domain.ConstraintIsAllValuesMatch:
			rules = append(rules, Rule{Type: RuleValuesMatch, Field: field.Name, Gate: gate})
		case domain.ConstraintIsLimitedTo:
			optionSource = c.Name
		}
	}

	if gate == nil && field.Required {
		if field.Type == domain.FieldTypeFile {
			rules = append(rules, Rule{Type: RuleRequiredIfNoPrevious, Field: field.Name, Required: true})
		} else {
			rules = append(rules, Rule{Type: RuleRequired, Field: field.Name, Required: true})
		}
	}

	switch {
	case !freeformTypes[field.Type]:
		options, err := f.resolveOptions(ctx, field, optionSource)
		if err != nil {
			return nil, err
		}
		if len(options) > 0 {
			rules = append(rules, Rule{Type: RuleLimitedOptions, Field: field.Name, Options: options})
		}
	case field.Type == domain.FieldTypePerson:
		rules = append(rules, Rule{Type: RuleValidUser, Field: field.Name})
	default:
		if field.Pattern != "" {
			re, err := compilePattern(field.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s pattern %q: %v", domain.ErrInvalidFieldConfig, field.Name, field.Pattern, err)
			}
			rules = append(rules, Rule{Type: RulePattern, Field: field.Name, Pattern: re, Source: field.Pattern, Mask: field.Mask})
		}
		rules = append(rules, Rule{
			Type:      RuleValueLength,
			Field:     field.Name,
			MinLength: field.MinValueLength,
			MaxLength: field.MaxValueLength,
		})
	}

	if field.MaxInputs > 1 || field.MinInputs > 1 {
		rules = append(rules, Rule{
			Type:      RuleNumberOfInputs,
			Field:     field.Name,
			Gate:      gate,
			Required:  field.Required,
			MinInputs: field.MinInputs,
			MaxInputs: field.MaxInputs,
		})
	}
	return rules, nil
}

// compilePattern compiles a field pattern so that it must match the whole
// value.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")$")
}

// resolveOptions returns the option values of an enumerated field, preferring
// the named external source over the static list.
func (f *Factory) resolveOptions(ctx context.Context, field domain.Field, source string) ([]string, error) {
	options := field.Options
	if source != "" {
		provider := f.options.Get(source)
		if provider == nil {
			f.logger.Warn("option source not registered, using static options", "field", field.Name, "source", source)
		} else {
			resolved, err := provider.Options(ctx)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				f.logger.Warn("option source has no values, using static options", "field", field.Name, "source", source)
			case err != nil:
				return nil, fmt.Errorf("resolving options %q for field %s: %w", source, field.Name, err)
			default:
				options = resolved
			}
		}
	}
	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}
	return values, nil
}
