package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"

	"formflow/internal/domain"
)

// RuleType enumerates every check a template can carry.
type RuleType string

const (
	RuleRequired             RuleType = "REQUIRED"
	RuleRequiredIfNoPrevious RuleType = "REQUIRED_IF_NO_PREVIOUS"
	RuleConstrained          RuleType = "CONSTRAINED"
	RuleConstrainedRequired  RuleType = "CONSTRAINED_REQUIRED"
	RuleNumeric              RuleType = "NUMERIC"
	RuleEmail                RuleType = "EMAIL"
	RulePattern              RuleType = "PATTERN"
	RuleValueLength          RuleType = "VALUE_LENGTH"
	RuleNumberOfInputs       RuleType = "NUMBER_OF_INPUTS"
	RuleLimitedOptions       RuleType = "LIMITED_OPTIONS"
	RuleValidUser            RuleType = "VALID_USER"
	RuleValuesMatch          RuleType = "VALUES_MATCH"
)

const (
	MsgRequired       = "Field is required"
	MsgNumeric        = "Must be a number"
	MsgEmail          = "Must be a valid email address"
	MsgPattern        = "Does not match required pattern: "
	MsgTooLong        = "Cannot be more than %d characters"
	MsgTooShort       = "Cannot be less than %d characters"
	MsgTooManyInputs  = "No more than %d are allowed"
	MsgTooFewInputs   = "At least %d are required"
	MsgValuesMismatch = "Values do not match"
	MsgInvalidOption  = "Not a valid option for this field"
	MsgInvalidUser    = "Must be a valid user"
)

// Messages for submitted keys outside the template.
const (
	MsgAttachmentTooLarge = "Attachment cannot be larger than %d bytes"
	MsgNotAFile           = "Only files can be attached, value ignored"
)

var formats = playground.New()

// Rule is a single immutable check bound to one field. Only the attributes
// relevant to Type are set.
type Rule struct {
	Type      RuleType           `json:"type"`
	Field     string             `json:"field"`
	Gate      *domain.Constraint `json:"gate,omitempty"`
	Required  bool               `json:"required,omitempty"`
	Pattern   *regexp.Regexp     `json:"-"`
	Source    string             `json:"pattern,omitempty"`
	Mask      string             `json:"mask,omitempty"`
	Options   []string           `json:"options,omitempty"`
	MinLength int                `json:"min_length,omitempty"`
	MaxLength int                `json:"max_length,omitempty"`
	MinInputs int                `json:"min_inputs,omitempty"`
	MaxInputs int                `json:"max_inputs,omitempty"`
}

// RuleInput is the data a rule is evaluated against.
type RuleInput struct {
	Values   []domain.Value
	Previous []domain.Value
	Snapshot domain.Submission
	Strict   bool
}

// RuleFailure reports one failed rule on one field.
type RuleFailure struct {
	Rule    Rule
	Message string
}

func (f *RuleFailure) Error() string {
	return fmt.Sprintf("%s %s: %s", f.Rule.Field, f.Rule.Type, f.Message)
}

// Evaluate runs the rule. It returns nil on success, a *RuleFailure when the
// data violates the rule, or a plain error for a rule type it does not know.
func (r Rule) Evaluate(in RuleInput) error {
	values := domain.NonEmpty(in.Values)

	switch r.Type {
	case RuleRequired:
		if len(values) == 0 {
			return r.fail(MsgRequired)
		}
	case RuleRequiredIfNoPrevious:
		if len(values) == 0 && len(domain.NonEmpty(in.Previous)) == 0 {
			return r.fail(MsgRequired)
		}
	case RuleConstrained:
		if !r.gateHolds(in.Snapshot) {
			return nil
		}
		if r.Required && len(values) == 0 {
			return r.fail(MsgRequired)
		}
	case RuleConstrainedRequired:
		if !r.gateHolds(in.Snapshot) {
			return nil
		}
		if len(values) == 0 {
			return r.fail(MsgRequired)
		}
	case RuleNumeric:
		for _, v := range values {
			if formats.Var(strings.TrimSpace(v.String()), "numeric") != nil {
				return r.fail(MsgNumeric)
			}
		}
	case RuleEmail:
		for _, v := range values {
			if formats.Var(strings.TrimSpace(v.String()), "email") != nil {
				return r.fail(MsgEmail)
			}
		}
	case RulePattern:
		if r.Pattern == nil {
			return nil
		}
		for _, v := range values {
			if !r.Pattern.MatchString(v.String()) {
				return r.fail(r.patternMessage())
			}
		}
	case RuleValueLength:
		for _, v := range values {
			n := utf8.RuneCountInString(v.String())
			if r.MaxLength > 0 && n > r.MaxLength {
				return r.fail(fmt.Sprintf(MsgTooLong, r.MaxLength))
			}
			if r.MinLength > 0 && n < r.MinLength {
				return r.fail(fmt.Sprintf(MsgTooShort, r.MinLength))
			}
		}
	case RuleNumberOfInputs:
		if r.MaxInputs > 0 && len(values) > r.MaxInputs {
			return r.fail(fmt.Sprintf(MsgTooManyInputs, r.MaxInputs))
		}
		if r.MinInputs > 0 && len(values) < r.MinInputs &&
			r.Required && in.Strict && r.gateHolds(in.Snapshot) {
			return r.fail(fmt.Sprintf(MsgTooFewInputs, r.MinInputs))
		}
	case RuleLimitedOptions:
		for _, v := range values {
			if !r.hasOption(v.String()) {
				return r.fail(MsgInvalidOption)
			}
		}
	case RuleValidUser:
		for _, v := range values {
			if v.Kind != domain.ValueKindUser || v.User == nil {
				return r.fail(MsgInvalidUser)
			}
		}
	case RuleValuesMatch:
		if !r.gateHolds(in.Snapshot) {
			return nil
		}
		for i := 1; i < len(values); i++ {
			if values[i].String() != values[0].String() {
				return r.fail(MsgValuesMismatch)
			}
		}
	default:
		return fmt.Errorf("validator: unsupported rule type %q on field %s", r.Type, r.Field)
	}
	return nil
}

func (r Rule) gateHolds(snapshot domain.Submission) bool {
	return r.Gate == nil || EvaluateConstraint(snapshot, r.Gate)
}

func (r Rule) hasOption(value string) bool {
	for _, o := range r.Options {
		if o == value {
			return true
		}
	}
	return false
}

// patternMessage prefers the human-readable mask over the configured
// expression.
func (r Rule) patternMessage() string {
	if r.Mask != "" {
		return MsgPattern + r.Mask
	}
	if r.Source != "" {
		return MsgPattern + r.Source
	}
	if r.Pattern != nil {
		return MsgPattern + r.Pattern.String()
	}
	return strings.TrimSpace(MsgPattern)
}

func (r Rule) fail(msg string) error {
	return &RuleFailure{Rule: r, Message: msg}
}
