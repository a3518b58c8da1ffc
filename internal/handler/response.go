package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"formflow/internal/domain"
	"formflow/internal/middleware"
	"formflow/internal/validator"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrValidationFailed):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED", "submission failed validation"
	case errors.Is(err, domain.ErrInstanceNotFound):
		return http.StatusNotFound, "INSTANCE_NOT_FOUND", "process instance not found"
	case errors.Is(err, domain.ErrActivityNotFound):
		return http.StatusNotFound, "ACTIVITY_NOT_FOUND", "activity not found"
	case errors.Is(err, domain.ErrNoDeployment):
		return http.StatusNotFound, "NO_DEPLOYMENT", "no deployment found for process"
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusInternalServerError, "CONFIGURATION_ERROR", "activity configuration is invalid"
	case errors.Is(err, domain.ErrInvalidSubmission):
		return http.StatusBadRequest, "INVALID_SUBMISSION", "submission payload is malformed"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractPrincipal reads the caller principal from the request context.
// Returns false if it is missing (error response already written).
func extractPrincipal(c *gin.Context) (domain.Principal, bool) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal context")
		return domain.Principal{}, false
	}
	return principal, true
}

// HandleError maps a domain error and sends the appropriate error response.
// A rejected submission carries its validation result in the data field.
func HandleError(c *gin.Context, logger *log.Logger, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		logger.Error("internal error", "request_id", requestID, "err", err)
	}

	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		c.JSON(status, APIResponse{
			Success: false,
			Data:    verr.Validation,
			Error:   &APIError{Code: code, Message: msg},
		})
		return
	}
	RespondError(c, status, code, msg)
}
