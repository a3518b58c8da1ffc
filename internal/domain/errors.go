package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInstanceNotFound   = errors.New("process instance not found")
	ErrInvalidSubmission  = errors.New("submission payload is malformed")
	ErrConfiguration      = errors.New("activity configuration is missing or malformed")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrNoDeployment       = errors.New("no deployment found for process")
	ErrInvalidFieldConfig = errors.New("field configuration is invalid")
	ErrValidationFailed   = errors.New("submission failed validation")
)

// ConfigurationError reports activity or deployment metadata that prevents
// validation from running at all.
type ConfigurationError struct {
	ProcessKey  string
	ActivityKey string
	Err         error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s/%s: %v", e.ProcessKey, e.ActivityKey, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is makes every ConfigurationError match ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
