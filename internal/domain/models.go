package domain

import (
	"time"

	"github.com/google/uuid"
)

// Option is one entry of an enumerated field.
type Option struct {
	Value string `db:"value" json:"value"`
	Label string `db:"label" json:"label,omitempty"`
}

// Constraint adds conditional or format behaviour to a field.
// A constraint references at most one other field.
type Constraint struct {
	ID                  string         `json:"id,omitempty"`
	Type                ConstraintType `json:"type"`
	ReferencedFieldName string         `json:"referenced_field_name,omitempty"`
	Value               string         `json:"value,omitempty"`
	Name                string         `json:"name,omitempty"`
}

// Field describes a single form input of an activity.
type Field struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Label          string       `json:"label,omitempty"`
	Type           FieldType    `json:"type"`
	Required       bool         `json:"required"`
	Editable       bool         `json:"editable"`
	Restricted     bool         `json:"restricted"`
	Deleted        bool         `json:"deleted"`
	Pattern        string       `json:"pattern,omitempty"`
	Mask           string       `json:"mask,omitempty"`
	MinValueLength int          `json:"min_value_length"`
	MaxValueLength int          `json:"max_value_length"`
	MinInputs      int          `json:"min_inputs"`
	MaxInputs      int          `json:"max_inputs"`
	Options        []Option     `json:"options,omitempty"`
	Constraints    []Constraint `json:"constraints,omitempty"`
}

// NewField returns a field with the default bounds: unbounded value length
// and exactly one input.
func NewField(id, name string, typ FieldType) Field {
	return Field{
		ID:             id,
		Name:           name,
		Type:           typ,
		Editable:       true,
		MinValueLength: -1,
		MaxValueLength: -1,
		MinInputs:      1,
		MaxInputs:      1,
	}
}

// Button is a page-level submit control.
type Button struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Label  string `json:"label,omitempty"`
	Value  string `json:"value"`
	Action string `json:"action,omitempty"`
}

// Container is a node of an activity's step tree.
type Container struct {
	ID               string      `json:"id"`
	Title            string      `json:"title,omitempty"`
	Ordinal          int         `json:"ordinal"`
	FieldIDs         []string    `json:"field_ids,omitempty"`
	Children         []Container `json:"children,omitempty"`
	Buttons          []Button    `json:"buttons,omitempty"`
	ReviewChildIndex *int        `json:"review_child_index,omitempty"`
}

// ReviewIndex returns the ordinal of the review child, if one is configured.
func (c *Container) ReviewIndex() (int, bool) {
	if c == nil || c.ReviewChildIndex == nil || *c.ReviewChildIndex < 0 {
		return 0, false
	}
	return *c.ReviewChildIndex, true
}

// Find returns the container with the given id among c and its descendants.
func (c *Container) Find(id string) *Container {
	if c == nil {
		return nil
	}
	if c.ID == id {
		return c
	}
	for i := range c.Children {
		if found := c.Children[i].Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Activity is one step of a process definition.
type Activity struct {
	ProcessKey        string                   `json:"process_key"`
	Key               string                   `json:"key"`
	Label             string                   `json:"label,omitempty"`
	Fields            map[string]Field         `json:"fields"`
	AllowAttachments  bool                     `json:"allow_attachments"`
	MaxAttachmentSize int64                    `json:"max_attachment_size"`
	Actions           map[ActionType]Container `json:"actions,omitempty"`
}

// Container returns the root container configured for an action.
func (a *Activity) Container(action ActionType) *Container {
	if a == nil || a.Actions == nil {
		return nil
	}
	c, ok := a.Actions[action]
	if !ok {
		return nil
	}
	return &c
}

// Instance is a running process instance with its stored form data.
type Instance struct {
	ID         uuid.UUID  `json:"id"`
	ProcessKey string     `json:"process_key"`
	Data       Submission `json:"data"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Task is the unit of work an instance is waiting on.
type Task struct {
	ID          string `json:"id"`
	ActivityKey string `json:"activity_key"`
	AssigneeID  string `json:"assignee_id,omitempty"`
}

// Principal is the authenticated caller a projection is computed for.
type Principal struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// HasRole reports whether the principal holds role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
