package validator

import (
	"strings"

	"formflow/internal/domain"
)

// FieldRules pairs a field with its ordered rules.
type FieldRules struct {
	Field domain.Field
	Rules []Rule
}

// SubmissionTemplate is the validation-ready projection of an activity or
// one of its steps. It is built once per request and never modified.
type SubmissionTemplate struct {
	fieldRules        []FieldRules
	fieldMap          map[string]domain.Field
	buttonMap         map[string]domain.Button
	buttonNames       map[string]struct{}
	attachmentAllowed bool
	maxAttachmentSize int64
	allowAnyFields    bool
}

// TemplateOption adjusts a template while it is being built.
type TemplateOption func(*SubmissionTemplate)

// WithAttachments allows attachments up to maxSize bytes (0 = unbounded).
func WithAttachments(maxSize int64) TemplateOption {
	return func(t *SubmissionTemplate) {
		t.attachmentAllowed = true
		t.maxAttachmentSize = maxSize
	}
}

// WithAllowAnyFields lets unknown submitted keys pass through unvalidated.
func WithAllowAnyFields() TemplateOption {
	return func(t *SubmissionTemplate) {
		t.allowAnyFields = true
	}
}

// NewSubmissionTemplate freezes the given field rules and buttons.
func NewSubmissionTemplate(fieldRules []FieldRules, buttons []domain.Button, opts ...TemplateOption) *SubmissionTemplate {
	t := &SubmissionTemplate{
		fieldRules:  make([]FieldRules, 0, len(fieldRules)),
		fieldMap:    make(map[string]domain.Field, len(fieldRules)),
		buttonMap:   make(map[string]domain.Button, len(buttons)),
		buttonNames: make(map[string]struct{}, len(buttons)),
	}
	for _, fr := range fieldRules {
		rules := append([]Rule(nil), fr.Rules...)
		t.fieldRules = append(t.fieldRules, FieldRules{Field: fr.Field, Rules: rules})
		t.fieldMap[fr.Field.Name] = fr.Field
	}
	for _, b := range buttons {
		t.buttonMap[b.Value] = b
		if b.Name != "" {
			t.buttonNames[b.Name] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FieldRules returns the fields and their rules in declaration order.
func (t *SubmissionTemplate) FieldRules() []FieldRules {
	return t.fieldRules
}

// Fields returns the template's fields in declaration order.
func (t *SubmissionTemplate) Fields() []domain.Field {
	fields := make([]domain.Field, 0, len(t.fieldRules))
	for _, fr := range t.fieldRules {
		fields = append(fields, fr.Field)
	}
	return fields
}

// Field looks up a field by name.
func (t *SubmissionTemplate) Field(name string) (domain.Field, bool) {
	f, ok := t.fieldMap[name]
	return f, ok
}

// Rules returns the rules of the named field.
func (t *SubmissionTemplate) Rules(name string) []Rule {
	for _, fr := range t.fieldRules {
		if fr.Field.Name == name {
			return fr.Rules
		}
	}
	return nil
}

// Button looks up a button by its submitted value.
func (t *SubmissionTemplate) Button(value string) (domain.Button, bool) {
	b, ok := t.buttonMap[value]
	return b, ok
}

// Buttons returns the template's buttons keyed by value.
func (t *SubmissionTemplate) Buttons() map[string]domain.Button {
	return t.buttonMap
}

func (t *SubmissionTemplate) IsAttachmentAllowed() bool { return t.attachmentAllowed }
func (t *SubmissionTemplate) MaxAttachmentSize() int64  { return t.maxAttachmentSize }
func (t *SubmissionTemplate) AllowAnyFields() bool      { return t.allowAnyFields }

// FieldSubmissionType classifies a submitted key. Known fields win over
// buttons, buttons over description companions, and unknown keys are
// attachments only when the template allows them.
func (t *SubmissionTemplate) FieldSubmissionType(name string) domain.SubmissionType {
	if f, ok := t.fieldMap[name]; ok {
		if f.Restricted {
			return domain.SubmissionRestricted
		}
		return domain.SubmissionAcceptable
	}
	if _, ok := t.buttonNames[name]; ok {
		return domain.SubmissionButton
	}
	if base, ok := strings.CutSuffix(name, domain.DescriptionSuffix); ok {
		if _, known := t.fieldMap[base]; known {
			return domain.SubmissionDescription
		}
	}
	if t.attachmentAllowed {
		return domain.SubmissionAttachment
	}
	return domain.SubmissionInvalid
}
