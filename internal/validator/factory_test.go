package validator_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"formflow/internal/domain"
	"formflow/internal/port"
	"formflow/internal/validator"
	"formflow/mocks"
)

func intPtr(i int) *int { return &i }

func newActivity(fields ...domain.Field) *domain.Activity {
	a := &domain.Activity{
		ProcessKey: "onboarding",
		Key:        "collect",
		Fields:     make(map[string]domain.Field, len(fields)),
	}
	for _, f := range fields {
		a.Fields[f.ID] = f
	}
	return a
}

func requiredField(id, name string, typ domain.FieldType) domain.Field {
	f := domain.NewField(id, name, typ)
	f.Required = true
	return f
}

func ruleOfType(t *testing.T, rules []validator.Rule, typ validator.RuleType) validator.Rule {
	t.Helper()
	for _, r := range rules {
		if r.Type == typ {
			return r
		}
	}
	require.Failf(t, "rule not found", "no %s rule in %v", typ, rules)
	return validator.Rule{}
}

func ruleTypes(rules []validator.Rule) []validator.RuleType {
	out := make([]validator.RuleType, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Type)
	}
	return out
}

func newFactory(options *validator.OptionRegistry) *validator.Factory {
	return validator.NewFactory(options, log.New(io.Discard))
}

func TestFactory_Build_NilActivity(t *testing.T) {
	_, err := newFactory(nil).Build(context.Background(), nil, "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.True(t, errors.Is(err, domain.ErrActivityNotFound))
}

func TestFactory_Build_ReviewStepAggregatesSiblings(t *testing.T) {
	activity := newActivity(
		domain.NewField("f-x", "x", domain.FieldTypeText),
		domain.NewField("f-y", "y", domain.FieldTypeText),
		domain.NewField("f-z", "z", domain.FieldTypeText),
	)
	activity.Actions = map[domain.ActionType]domain.Container{
		domain.ActionCreate: {
			ID:               "root",
			ReviewChildIndex: intPtr(2),
			Children: []domain.Container{
				{ID: "A", Ordinal: 0, FieldIDs: []string{"f-x"}},
				{ID: "B", Ordinal: 1, FieldIDs: []string{"f-y"}},
				{ID: "R", Ordinal: 2},
				{ID: "C", Ordinal: 3, FieldIDs: []string{"f-z"}},
			},
		},
	}

	tmpl, err := newFactory(nil).Build(context.Background(), activity, "R")
	require.NoError(t, err)

	var names []string
	for _, f := range tmpl.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"x", "y"}, names)
	assert.NotEmpty(t, tmpl.Rules("x"))
	assert.NotEmpty(t, tmpl.Rules("y"))
}

func TestFactory_Build_UnscopedIgnoresParentOrdinal(t *testing.T) {
	activity := newActivity(
		domain.NewField("f-x", "x", domain.FieldTypeText),
		domain.NewField("f-y", "y", domain.FieldTypeText),
		domain.NewField("f-z", "z", domain.FieldTypeText),
	)
	activity.Actions = map[domain.ActionType]domain.Container{
		domain.ActionCreate: {
			ID:               "root",
			Ordinal:          0,
			ReviewChildIndex: intPtr(0),
			FieldIDs:         []string{"f-x"},
			Children: []domain.Container{
				{ID: "A", Ordinal: 0, FieldIDs: []string{"f-y"}},
				{ID: "B", Ordinal: 1, FieldIDs: []string{"f-z"}},
			},
		},
	}

	names := func(tmpl *validator.SubmissionTemplate) []string {
		var out []string
		for _, f := range tmpl.Fields() {
			out = append(out, f.Name)
		}
		return out
	}

	tmpl, err := newFactory(nil).Build(context.Background(), activity, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, names(tmpl))

	review, err := newFactory(nil).Build(context.Background(), activity, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, names(review))
}

func TestFactory_Build_ScopedContainerIncludesDescendants(t *testing.T) {
	activity := newActivity(
		domain.NewField("f-x", "x", domain.FieldTypeText),
		domain.NewField("f-y", "y", domain.FieldTypeText),
		domain.NewField("f-z", "z", domain.FieldTypeText),
	)
	activity.Actions = map[domain.ActionType]domain.Container{
		domain.ActionCreate: {
			ID: "root",
			Children: []domain.Container{
				{ID: "A", FieldIDs: []string{"f-x"}, Children: []domain.Container{
					{ID: "A1", FieldIDs: []string{"f-y", "f-x", "missing"}},
				}},
				{ID: "B", Ordinal: 1, FieldIDs: []string{"f-z"}},
			},
		},
	}

	tmpl, err := newFactory(nil).Build(context.Background(), activity, "A")
	require.NoError(t, err)

	var names []string
	for _, f := range tmpl.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"x", "y"}, names)
}

func TestFactory_Build_UnknownScopeUsesAllFields(t *testing.T) {
	activity := newActivity(
		domain.NewField("b", "second", domain.FieldTypeText),
		domain.NewField("a", "first", domain.FieldTypeText),
	)

	tmpl, err := newFactory(nil).Build(context.Background(), activity, "nowhere")
	require.NoError(t, err)

	var names []string
	for _, f := range tmpl.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"first", "second"}, names)
}

func TestFactory_Build_SkipsDeletedAndReadOnly(t *testing.T) {
	deleted := domain.NewField("d", "deleted", domain.FieldTypeText)
	deleted.Deleted = true
	readOnly := domain.NewField("r", "readonly", domain.FieldTypeText)
	readOnly.Editable = false
	restricted := domain.NewField("s", "secret", domain.FieldTypeText)
	restricted.Restricted = true

	tmpl, err := newFactory(nil).Build(context.Background(), newActivity(deleted, readOnly, restricted), "")
	require.NoError(t, err)

	_, ok := tmpl.Field("deleted")
	assert.False(t, ok)
	_, ok = tmpl.Field("readonly")
	assert.False(t, ok)
	_, ok = tmpl.Field("secret")
	assert.True(t, ok)
	assert.Equal(t, domain.SubmissionRestricted, tmpl.FieldSubmissionType("secret"))
}

func TestFactory_Build_ButtonsFromParent(t *testing.T) {
	activity := newActivity(domain.NewField("f-x", "x", domain.FieldTypeText))
	activity.Actions = map[domain.ActionType]domain.Container{
		domain.ActionCreate: {
			ID:      "root",
			Buttons: []domain.Button{{ID: "b1", Name: "decision", Value: "approve"}},
			Children: []domain.Container{
				{ID: "A", FieldIDs: []string{"f-x"}, Buttons: []domain.Button{{ID: "b2", Name: "ignored", Value: "x"}}},
			},
		},
	}

	tmpl, err := newFactory(nil).Build(context.Background(), activity, "A")
	require.NoError(t, err)

	_, ok := tmpl.Button("approve")
	assert.True(t, ok)
	_, ok = tmpl.Button("x")
	assert.False(t, ok)
	assert.Equal(t, domain.SubmissionButton, tmpl.FieldSubmissionType("decision"))
}

func TestFactory_Build_RuleDerivation(t *testing.T) {
	zip := requiredField("1", "zip", domain.FieldTypeText)
	zip.Pattern = `^[0-9]{5}$`
	zip.Mask = "#####"

	state := requiredField("2", "state", domain.FieldTypeText)
	state.Constraints = []domain.Constraint{{Type: domain.ConstraintOnlyRequiredWhen, ReferencedFieldName: "country", Value: "US"}}

	amount := domain.NewField("3", "amount", domain.FieldTypeNumber)
	amount.Constraints = []domain.Constraint{{Type: domain.ConstraintIsNumeric}}

	contact := domain.NewField("4", "contact", domain.FieldTypeEmail)
	contact.Constraints = []domain.Constraint{{Type: domain.ConstraintIsEmailAddress}}

	upload := requiredField("5", "upload", domain.FieldTypeFile)

	color := domain.NewField("6", "color", domain.FieldTypeSelectOne)
	color.Options = []domain.Option{{Value: "red"}, {Value: "blue"}}

	owner := domain.NewField("7", "owner", domain.FieldTypePerson)

	tags := requiredField("8", "tags", domain.FieldTypeText)
	tags.MinInputs = 2
	tags.MaxInputs = 4

	pin := domain.NewField("9", "pin", domain.FieldTypeText)
	pin.Constraints = []domain.Constraint{
		{Type: domain.ConstraintIsAllValuesMatch},
		{Type: domain.ConstraintOnlyRequiredWhen, ReferencedFieldName: "set_pin"},
	}
	pin.MaxInputs = 2

	tmpl, err := newFactory(nil).Build(context.Background(),
		newActivity(zip, state, amount, contact, upload, color, owner, tags, pin), "")
	require.NoError(t, err)

	assert.Equal(t, []validator.RuleType{validator.RuleRequired, validator.RulePattern, validator.RuleValueLength},
		ruleTypes(tmpl.Rules("zip")))
	assert.Equal(t, []validator.RuleType{validator.RuleConstrainedRequired, validator.RuleValueLength},
		ruleTypes(tmpl.Rules("state")))
	assert.Equal(t, []validator.RuleType{validator.RuleNumeric, validator.RuleValueLength},
		ruleTypes(tmpl.Rules("amount")))
	assert.Equal(t, []validator.RuleType{validator.RuleEmail, validator.RuleValueLength},
		ruleTypes(tmpl.Rules("contact")))
	assert.Equal(t, []validator.RuleType{validator.RuleRequiredIfNoPrevious, validator.RuleValueLength},
		ruleTypes(tmpl.Rules("upload")))
	assert.Equal(t, []validator.RuleType{validator.RuleLimitedOptions},
		ruleTypes(tmpl.Rules("color")))
	assert.Equal(t, []validator.RuleType{validator.RuleValidUser},
		ruleTypes(tmpl.Rules("owner")))
	assert.Equal(t, []validator.RuleType{validator.RuleRequired, validator.RuleValueLength, validator.RuleNumberOfInputs},
		ruleTypes(tmpl.Rules("tags")))
	assert.Equal(t,
		[]validator.RuleType{validator.RuleValuesMatch, validator.RuleConstrainedRequired, validator.RuleValueLength, validator.RuleNumberOfInputs},
		ruleTypes(tmpl.Rules("pin")))

	pinRules := tmpl.Rules("pin")
	require.NotNil(t, pinRules[0].Gate)
	assert.Equal(t, "set_pin", pinRules[0].Gate.ReferencedFieldName)
	require.NotNil(t, pinRules[3].Gate)
	assert.Equal(t, "#####", tmpl.Rules("zip")[1].Mask)
	assert.Equal(t, []string{"red", "blue"}, tmpl.Rules("color")[0].Options)
}

func TestFactory_Build_InvalidPattern(t *testing.T) {
	bad := domain.NewField("1", "zip", domain.FieldTypeText)
	bad.Pattern = "(["

	_, err := newFactory(nil).Build(context.Background(), newActivity(bad), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.True(t, errors.Is(err, domain.ErrInvalidFieldConfig))
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "onboarding", cfgErr.ProcessKey)
	assert.Equal(t, "collect", cfgErr.ActivityKey)
}

func TestFactory_Build_PatternMatchesWholeValue(t *testing.T) {
	zip := domain.NewField("1", "zip", domain.FieldTypeText)
	zip.Pattern = "[0-9]{5}"
	zip.Mask = "#####"
	code := domain.NewField("2", "code", domain.FieldTypeText)
	code.Pattern = "ab|cd"

	tmpl, err := newFactory(nil).Build(context.Background(), newActivity(zip, code), "")
	require.NoError(t, err)

	zipRule := ruleOfType(t, tmpl.Rules("zip"), validator.RulePattern)
	assert.NoError(t, zipRule.Evaluate(validator.RuleInput{Values: text("12345")}))
	for _, value := range []string{"abc123456xyz", "123456", "x12345"} {
		msg := failureMessage(t, zipRule.Evaluate(validator.RuleInput{Values: text(value)}))
		assert.Equal(t, "Does not match required pattern: #####", msg, value)
	}

	codeRule := ruleOfType(t, tmpl.Rules("code"), validator.RulePattern)
	assert.NoError(t, codeRule.Evaluate(validator.RuleInput{Values: text("cd")}))
	msg := failureMessage(t, codeRule.Evaluate(validator.RuleInput{Values: text("abd")}))
	assert.Equal(t, validator.MsgPattern+"ab|cd", msg)
}

func TestFactory_Build_ExternalOptionSource(t *testing.T) {
	provider := new(mocks.MockOptionProvider)
	provider.On("Name").Return("countries")
	provider.On("Options", mock.Anything).Return([]domain.Option{{Value: "US"}, {Value: "CA"}}, nil)

	registry := validator.NewOptionRegistry()
	registry.Register(provider)

	country := domain.NewField("1", "country", domain.FieldTypeSelectOne)
	country.Options = []domain.Option{{Value: "static"}}
	country.Constraints = []domain.Constraint{{Type: domain.ConstraintIsLimitedTo, Name: "countries"}}

	tmpl, err := newFactory(registry).Build(context.Background(), newActivity(country), "")
	require.NoError(t, err)

	rules := tmpl.Rules("country")
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"US", "CA"}, rules[0].Options)
	provider.AssertExpectations(t)
}

func TestFactory_Build_UnregisteredOptionSourceFallsBack(t *testing.T) {
	country := domain.NewField("1", "country", domain.FieldTypeSelectOne)
	country.Options = []domain.Option{{Value: "static"}}
	country.Constraints = []domain.Constraint{{Type: domain.ConstraintIsLimitedTo, Name: "countries"}}

	tmpl, err := newFactory(validator.NewOptionRegistry()).Build(context.Background(), newActivity(country), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"static"}, tmpl.Rules("country")[0].Options)
}

func TestFactory_Build_ResolvesLateOptionSource(t *testing.T) {
	registry := validator.NewOptionRegistry()
	registry.SetResolver(func(name string) port.OptionProvider {
		return validator.StaticOptions(name, domain.Option{Value: "NZ"}, domain.Option{Value: "AU"})
	})

	country := domain.NewField("1", "country", domain.FieldTypeSelectOne)
	country.Options = []domain.Option{{Value: "static"}}
	country.Constraints = []domain.Constraint{{Type: domain.ConstraintIsLimitedTo, Name: "regions"}}

	tmpl, err := newFactory(registry).Build(context.Background(), newActivity(country), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"NZ", "AU"}, tmpl.Rules("country")[0].Options)
}

func TestFactory_Build_EmptyOptionSourceFallsBack(t *testing.T) {
	provider := new(mocks.MockOptionProvider)
	provider.On("Options", mock.Anything).Return(nil, domain.ErrNotFound)

	registry := validator.NewOptionRegistry()
	registry.SetResolver(func(string) port.OptionProvider { return provider })

	country := domain.NewField("1", "country", domain.FieldTypeSelectOne)
	country.Options = []domain.Option{{Value: "static"}}
	country.Constraints = []domain.Constraint{{Type: domain.ConstraintIsLimitedTo, Name: "regions"}}

	tmpl, err := newFactory(registry).Build(context.Background(), newActivity(country), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"static"}, tmpl.Rules("country")[0].Options)
	provider.AssertExpectations(t)
}

func TestFactory_Build_OptionSourceError(t *testing.T) {
	provider := new(mocks.MockOptionProvider)
	provider.On("Name").Return("countries")
	provider.On("Options", mock.Anything).Return(nil, errors.New("db down"))

	registry := validator.NewOptionRegistry()
	registry.Register(provider)

	country := domain.NewField("1", "country", domain.FieldTypeSelectOne)
	country.Constraints = []domain.Constraint{{Type: domain.ConstraintIsLimitedTo, Name: "countries"}}

	_, err := newFactory(registry).Build(context.Background(), newActivity(country), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestFactory_Build_AttachmentPolicy(t *testing.T) {
	activity := newActivity()
	activity.AllowAttachments = true
	activity.MaxAttachmentSize = 1024

	tmpl, err := newFactory(nil).Build(context.Background(), activity, "")
	require.NoError(t, err)

	assert.True(t, tmpl.IsAttachmentAllowed())
	assert.Equal(t, int64(1024), tmpl.MaxAttachmentSize())
	assert.True(t, tmpl.AllowAnyFields())

	withFields := newActivity(domain.NewField("1", "x", domain.FieldTypeText))
	withFields.AllowAttachments = true
	tmpl, err = newFactory(nil).Build(context.Background(), withFields, "")
	require.NoError(t, err)
	assert.True(t, tmpl.IsAttachmentAllowed())
	assert.False(t, tmpl.AllowAnyFields())
}
