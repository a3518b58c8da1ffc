package domain

import (
	"encoding/json"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	ValueKindText ValueKind = "text"
	ValueKindFile ValueKind = "file"
	ValueKindUser ValueKind = "user"
)

// FileRef references an uploaded file. The content itself lives elsewhere.
type FileRef struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Location    string `json:"location,omitempty"`
}

// UserRef references a user resolved by an identity provider.
type UserRef struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Value is one submitted or stored element of a field. Exactly one of Text,
// File or User is meaningful, as selected by Kind.
type Value struct {
	Kind ValueKind `json:"kind"`
	Text string    `json:"text,omitempty"`
	File *FileRef  `json:"file,omitempty"`
	User *UserRef  `json:"user,omitempty"`
}

// TextValue wraps plain text.
func TextValue(s string) Value {
	return Value{Kind: ValueKindText, Text: s}
}

// FileValue wraps a file reference.
func FileValue(f FileRef) Value {
	return Value{Kind: ValueKindFile, File: &f}
}

// UserValue wraps a user reference.
func UserValue(userID, displayName string) Value {
	return Value{Kind: ValueKindUser, User: &UserRef{UserID: userID, DisplayName: displayName}}
}

// UnmarshalJSON accepts either the tagged object form or a bare JSON string,
// which decodes as a text value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*v = TextValue(text)
		return nil
	}
	type plain Value
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Kind == "" {
		p.Kind = ValueKindText
	}
	*v = Value(p)
	return nil
}

// String returns the comparison string of the value: the text, the file name
// or the user id.
func (v Value) String() string {
	switch v.Kind {
	case ValueKindFile:
		if v.File == nil {
			return ""
		}
		return v.File.Name
	case ValueKindUser:
		if v.User == nil {
			return ""
		}
		return v.User.UserID
	default:
		return v.Text
	}
}

// IsEmpty reports whether the value carries nothing worth validating.
func (v Value) IsEmpty() bool {
	return strings.TrimSpace(v.String()) == ""
}

// NonEmpty returns the non-empty values in their original order.
func NonEmpty(values []Value) []Value {
	out := make([]Value, 0, len(values))
	for _, v := range values {
		if !v.IsEmpty() {
			out = append(out, v)
		}
	}
	return out
}

// Submission maps field names to their ordered values.
type Submission map[string][]Value

// Values returns the values stored for name, never nil.
func (s Submission) Values(name string) []Value {
	if vs, ok := s[name]; ok && vs != nil {
		return vs
	}
	return []Value{}
}
