package handler

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"formflow/internal/domain"
	"formflow/internal/service"
	"formflow/internal/validator"
)

// ValidateRequest is the body of a validation call.
type ValidateRequest struct {
	InstanceID *uuid.UUID        `json:"instance_id"`
	TaskID     string            `json:"task_id"`
	Data       domain.Submission `json:"data" binding:"required"`
}

// TemplateField describes one field of a submission template.
type TemplateField struct {
	Name       string               `json:"name"`
	Label      string               `json:"label,omitempty"`
	Type       domain.FieldType     `json:"type"`
	Restricted bool                 `json:"restricted"`
	Rules      []validator.RuleType `json:"rules"`
}

// TemplateResponse describes a submission template to clients.
type TemplateResponse struct {
	Fields            []TemplateField `json:"fields"`
	Buttons           []domain.Button `json:"buttons"`
	AttachmentAllowed bool            `json:"attachment_allowed"`
	MaxAttachmentSize int64           `json:"max_attachment_size"`
	AllowAnyFields    bool            `json:"allow_any_fields"`
}

// ValidationHandler handles submission validation endpoints.
type ValidationHandler struct {
	validationService service.ValidationService
	logger            *log.Logger
}

// NewValidationHandler creates a new ValidationHandler.
func NewValidationHandler(validationService service.ValidationService, logger *log.Logger) *ValidationHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ValidationHandler{validationService: validationService, logger: logger}
}

// Validate handles POST /api/v1/processes/:processKey/activities/:activityKey/validate
func (h *ValidationHandler) Validate(c *gin.Context) {
	principal, ok := extractPrincipal(c)
	if !ok {
		return
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SUBMISSION", err.Error())
		return
	}

	input := service.ValidateInput{
		ProcessKey:  c.Param("processKey"),
		ActivityKey: c.Param("activityKey"),
		ContainerID: c.Query("container"),
		Field:       c.Query("field"),
		InstanceID:  req.InstanceID,
		TaskID:      req.TaskID,
		Submission:  req.Data,
		Principal:   principal,
	}
	var err error
	if input.Strict, err = optionalBool(c, "strict"); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "strict must be a boolean")
		return
	}
	if input.ThrowOnError, err = optionalBool(c, "throw"); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "throw must be a boolean")
		return
	}

	result, err := h.validationService.Validate(c.Request.Context(), input)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, result)
}

// List handles GET /api/v1/processes/:processKey/activities
func (h *ValidationHandler) List(c *gin.Context) {
	if _, ok := extractPrincipal(c); !ok {
		return
	}

	keys, err := h.validationService.ListActivities(c.Request.Context(), c.Param("processKey"))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}

	RespondOK(c, keys)
}

// Template handles GET /api/v1/processes/:processKey/activities/:activityKey/template
func (h *ValidationHandler) Template(c *gin.Context) {
	if _, ok := extractPrincipal(c); !ok {
		return
	}

	tmpl, err := h.validationService.BuildTemplate(c.Request.Context(),
		c.Param("processKey"), c.Param("activityKey"), c.Query("container"))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, toTemplateResponse(tmpl))
}

func toTemplateResponse(tmpl *validator.SubmissionTemplate) TemplateResponse {
	resp := TemplateResponse{
		Fields:            make([]TemplateField, 0, len(tmpl.FieldRules())),
		Buttons:           make([]domain.Button, 0, len(tmpl.Buttons())),
		AttachmentAllowed: tmpl.IsAttachmentAllowed(),
		MaxAttachmentSize: tmpl.MaxAttachmentSize(),
		AllowAnyFields:    tmpl.AllowAnyFields(),
	}
	for _, fr := range tmpl.FieldRules() {
		rules := make([]validator.RuleType, 0, len(fr.Rules))
		for _, r := range fr.Rules {
			rules = append(rules, r.Type)
		}
		resp.Fields = append(resp.Fields, TemplateField{
			Name:       fr.Field.Name,
			Label:      fr.Field.Label,
			Type:       fr.Field.Type,
			Restricted: fr.Field.Restricted,
			Rules:      rules,
		})
	}
	for _, b := range tmpl.Buttons() {
		resp.Buttons = append(resp.Buttons, b)
	}
	sort.Slice(resp.Buttons, func(i, j int) bool { return resp.Buttons[i].Value < resp.Buttons[j].Value })
	return resp
}

func optionalBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
