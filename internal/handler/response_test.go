package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"formflow/internal/domain"
	"formflow/internal/handler"
	"formflow/internal/validator"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{&validator.ValidationError{Validation: &validator.Validation{}}, http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{fmt.Errorf("loading: %w", domain.ErrInstanceNotFound), http.StatusNotFound, "INSTANCE_NOT_FOUND"},
		{&domain.ConfigurationError{Err: domain.ErrActivityNotFound}, http.StatusNotFound, "ACTIVITY_NOT_FOUND"},
		{&domain.ConfigurationError{Err: domain.ErrNoDeployment}, http.StatusNotFound, "NO_DEPLOYMENT"},
		{&domain.ConfigurationError{Err: domain.ErrInvalidFieldConfig}, http.StatusInternalServerError, "CONFIGURATION_ERROR"},
		{domain.ErrInvalidSubmission, http.StatusBadRequest, "INVALID_SUBMISSION"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
