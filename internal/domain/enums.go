package domain

// FieldType is the semantic type of a form field.
type FieldType string

const (
	FieldTypeText           FieldType = "text"
	FieldTypeTextarea       FieldType = "textarea"
	FieldTypeNumber         FieldType = "number"
	FieldTypeEmail          FieldType = "email"
	FieldTypeFile           FieldType = "file"
	FieldTypePerson         FieldType = "person"
	FieldTypeCheckbox       FieldType = "checkbox"
	FieldTypeRadio          FieldType = "radio"
	FieldTypeSelectOne      FieldType = "select-one"
	FieldTypeSelectMultiple FieldType = "select-multiple"
	FieldTypeDate           FieldType = "date"
)

// ConstraintType identifies the behaviour a constraint adds to its field.
type ConstraintType string

const (
	ConstraintOnlyRequiredWhen ConstraintType = "ONLY_REQUIRED_WHEN"
	ConstraintIsNumeric        ConstraintType = "IS_NUMERIC"
	ConstraintIsEmailAddress   ConstraintType = "IS_EMAIL_ADDRESS"
	ConstraintIsAllValuesMatch ConstraintType = "IS_ALL_VALUES_MATCH"
	ConstraintIsLimitedTo      ConstraintType = "IS_LIMITED_TO"
)

// ActionType names the user action a container tree belongs to.
type ActionType string

const (
	ActionCreate   ActionType = "CREATE"
	ActionComplete ActionType = "COMPLETE"
	ActionReject   ActionType = "REJECT"
	ActionSave     ActionType = "SAVE"
	ActionView     ActionType = "VIEW"
)

// MessageType is the severity of a validation message.
type MessageType string

const (
	MessageError   MessageType = "error"
	MessageWarning MessageType = "warning"
)

// SubmissionType classifies a submitted key against a template.
type SubmissionType string

const (
	SubmissionAcceptable  SubmissionType = "ACCEPTABLE"
	SubmissionRestricted  SubmissionType = "RESTRICTED"
	SubmissionButton      SubmissionType = "BUTTON"
	SubmissionDescription SubmissionType = "DESCRIPTION"
	SubmissionAttachment  SubmissionType = "ATTACHMENT"
	SubmissionInvalid     SubmissionType = "INVALID"
)

// DescriptionSuffix marks the free-text companion key of a field.
const DescriptionSuffix = "!description"
