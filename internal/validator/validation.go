package validator

import (
	"fmt"
	"sort"

	"formflow/internal/domain"
)

// Message is one validation outcome attached to a field.
type Message struct {
	Type domain.MessageType `json:"type"`
	Text string             `json:"text"`
}

// Attachment is a file submitted under a key that is not a template field.
type Attachment struct {
	Name string         `json:"name"`
	File domain.FileRef `json:"file"`
}

// Validation is the aggregated, read-only result of one validation call.
type Validation struct {
	Data            domain.Submission    `json:"data"`
	Results         map[string][]Message `json:"results"`
	UnchangedFields []string             `json:"unchanged_fields"`
	Attachments     []Attachment         `json:"attachments"`
	HasError        bool                 `json:"has_error"`
}

// Messages returns the messages recorded for a field.
func (v *Validation) Messages(name string) []Message {
	return v.Results[name]
}

// IsUnchanged reports whether the field was resubmitted with its stored values.
func (v *Validation) IsUnchanged(name string) bool {
	i := sort.SearchStrings(v.UnchangedFields, name)
	return i < len(v.UnchangedFields) && v.UnchangedFields[i] == name
}

// ErrorFields returns the sorted names of fields with at least one error.
func (v *Validation) ErrorFields() []string {
	var out []string
	for name, msgs := range v.Results {
		for _, m := range msgs {
			if m.Type == domain.MessageError {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// ValidationError surfaces a result with errors to callers that asked for
// failures to be returned as errors.
type ValidationError struct {
	Validation *Validation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", domain.ErrValidationFailed, e.Validation.ErrorFields())
}

// Is makes every ValidationError match domain.ErrValidationFailed.
func (e *ValidationError) Is(target error) bool { return target == domain.ErrValidationFailed }

// accumulator collects results for a single call before they are frozen.
type accumulator struct {
	data        domain.Submission
	results     map[string][]Message
	unchanged   map[string]bool
	attachments []Attachment
}

func newAccumulator() *accumulator {
	return &accumulator{
		data:      make(domain.Submission),
		results:   make(map[string][]Message),
		unchanged: make(map[string]bool),
	}
}

func (a *accumulator) addMessage(name string, typ domain.MessageType, text string) {
	a.results[name] = append(a.results[name], Message{Type: typ, Text: text})
}

func (a *accumulator) accept(name string, values []domain.Value) {
	a.data[name] = append([]domain.Value(nil), values...)
}

func (a *accumulator) freeze() *Validation {
	unchanged := make([]string, 0, len(a.unchanged))
	for name := range a.unchanged {
		unchanged = append(unchanged, name)
	}
	sort.Strings(unchanged)

	hasError := false
	for _, msgs := range a.results {
		for _, m := range msgs {
			if m.Type == domain.MessageError {
				hasError = true
			}
		}
	}

	attachments := a.attachments
	if attachments == nil {
		attachments = []Attachment{}
	}
	return &Validation{
		Data:            a.data,
		Results:         a.results,
		UnchangedFields: unchanged,
		Attachments:     attachments,
		HasError:        hasError,
	}
}
