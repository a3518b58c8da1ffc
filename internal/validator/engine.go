package validator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"formflow/internal/domain"
	"formflow/internal/port"
)

// ProjectionReason is passed to the data filter for every projection the
// engine asks for.
const ProjectionReason = "Validating submission"

// Request holds everything one validation call needs.
type Request struct {
	Instance   *domain.Instance
	Task       *domain.Task
	Submission domain.Submission
	Template   *SubmissionTemplate
	Principal  domain.Principal
	APIVersion string

	// Field limits the call to one field for interactive checks. Failures on
	// that field are downgraded to warnings while it has no value.
	Field string
	// Strict enforces minimum input counts on required fields.
	Strict bool
	// ThrowOnError returns a *ValidationError instead of a result with errors.
	ThrowOnError bool
}

// Engine evaluates templates against submitted data.
type Engine struct {
	filter port.DataFilter
	logger *log.Logger
}

// NewEngine creates a new validation engine.
func NewEngine(filter port.DataFilter, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{filter: filter, logger: logger}
}

// Validate runs every rule of the template against the projected submission.
// All fields are evaluated even after failures.
func (e *Engine) Validate(ctx context.Context, req Request) (*Validation, error) {
	tmpl := req.Template
	if tmpl == nil {
		return nil, &domain.ConfigurationError{Err: errors.New("no submission template")}
	}

	submitted, err := e.filter.ProjectSubmission(ctx, req.Instance, req.Submission, req.Principal, ProjectionReason)
	if err != nil {
		return nil, fmt.Errorf("projecting submission: %w", err)
	}
	stored := domain.Submission{}
	if req.Instance != nil && req.Task != nil {
		stored, err = e.filter.ProjectInstance(ctx, req.Instance, req.Task, tmpl.Fields(), req.Principal, req.APIVersion, ProjectionReason, false)
		if err != nil {
			return nil, fmt.Errorf("projecting instance: %w", err)
		}
	}
	snapshot := overlay(stored, submitted)

	acc := newAccumulator()
	for _, fr := range tmpl.FieldRules() {
		name := fr.Field.Name
		if req.Field != "" && name != req.Field {
			continue
		}
		values := submitted.Values(name)
		previous := stored.Values(name)
		in := RuleInput{Values: values, Previous: previous, Snapshot: snapshot, Strict: req.Strict}

		failed := false
		for _, rule := range fr.Rules {
			err := rule.Evaluate(in)
			if err == nil {
				continue
			}
			var rf *RuleFailure
			if !errors.As(err, &rf) {
				return nil, err
			}
			failed = true
			acc.addMessage(name, severity(req, values), rf.Message)
		}
		if failed {
			continue
		}

		accepted := domain.NonEmpty(values)
		if len(accepted) == 0 {
			continue
		}
		acc.accept(name, accepted)
		if sameValues(values, previous) {
			acc.unchanged[name] = true
		}
	}

	if req.Field == "" {
		e.collectExtras(tmpl, submitted, acc)
	}

	result := acc.freeze()
	e.logger.Debug("validated submission",
		"fields", len(tmpl.FieldRules()), "accepted", len(result.Data),
		"unchanged", len(result.UnchangedFields), "errors", len(result.ErrorFields()))

	if req.ThrowOnError && result.HasError {
		return nil, &ValidationError{Validation: result}
	}
	return result, nil
}

// collectExtras handles submitted keys that are not template fields, in key
// order.
func (e *Engine) collectExtras(tmpl *SubmissionTemplate, submitted domain.Submission, acc *accumulator) {
	keys := make([]string, 0, len(submitted))
	for key := range submitted {
		if _, known := tmpl.Field(key); !known {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		values := domain.NonEmpty(submitted[key])
		if len(values) == 0 {
			continue
		}
		switch kind := tmpl.FieldSubmissionType(key); {
		case kind == domain.SubmissionDescription:
			acc.accept(key, values)
		case kind == domain.SubmissionAttachment && (hasFile(values) || !tmpl.AllowAnyFields()):
			ignored := false
			for _, v := range values {
				if v.Kind != domain.ValueKindFile || v.File == nil {
					ignored = true
					continue
				}
				if limit := tmpl.MaxAttachmentSize(); limit > 0 && v.File.Size > limit {
					acc.addMessage(key, domain.MessageError, fmt.Sprintf(MsgAttachmentTooLarge, limit))
					continue
				}
				acc.attachments = append(acc.attachments, Attachment{Name: key, File: *v.File})
			}
			if ignored {
				acc.addMessage(key, domain.MessageWarning, MsgNotAFile)
			}
		case tmpl.AllowAnyFields() && kind != domain.SubmissionButton:
			acc.accept(key, values)
		}
	}
}

func severity(req Request, values []domain.Value) domain.MessageType {
	if req.Field != "" && len(domain.NonEmpty(values)) == 0 {
		return domain.MessageWarning
	}
	return domain.MessageError
}

// sameValues compares two value lists position by position. Lists of
// different lengths are never the same.
func sameValues(a, b []domain.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].String() != b[i].String() {
			return false
		}
	}
	return true
}

func overlay(base, top domain.Submission) domain.Submission {
	out := make(domain.Submission, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

func hasFile(values []domain.Value) bool {
	for _, v := range values {
		if v.Kind == domain.ValueKindFile {
			return true
		}
	}
	return false
}
