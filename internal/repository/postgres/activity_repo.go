package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"formflow/internal/domain"
	"formflow/internal/port"
)

type activityRow struct {
	ProcessKey        string          `db:"process_key"`
	ActivityKey       string          `db:"activity_key"`
	Label             string          `db:"label"`
	AllowAttachments  bool            `db:"allow_attachments"`
	MaxAttachmentSize int64           `db:"max_attachment_size"`
	Actions           json.RawMessage `db:"actions"`
}

type fieldRow struct {
	ID             string          `db:"id"`
	Name           string          `db:"name"`
	Label          string          `db:"label"`
	FieldType      string          `db:"field_type"`
	Required       bool            `db:"required"`
	Editable       bool            `db:"editable"`
	Restricted     bool            `db:"restricted"`
	Deleted        bool            `db:"deleted"`
	Pattern        string          `db:"pattern"`
	Mask           string          `db:"mask"`
	MinValueLength int             `db:"min_value_length"`
	MaxValueLength int             `db:"max_value_length"`
	MinInputs      int             `db:"min_inputs"`
	MaxInputs      int             `db:"max_inputs"`
	Options        json.RawMessage `db:"options"`
	Constraints    json.RawMessage `db:"constraints"`
}

type activityRepo struct {
	db *sqlx.DB
}

// NewActivityRepo creates a new PostgreSQL-backed ActivityRepository.
func NewActivityRepo(db *sqlx.DB) port.ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) GetActivity(ctx context.Context, processKey, activityKey string) (*domain.Activity, error) {
	if err := r.ensureDeployment(ctx, processKey); err != nil {
		return nil, err
	}

	var row activityRow
	err := r.db.GetContext(ctx, &row,
		`SELECT process_key, activity_key, label, allow_attachments, max_attachment_size, actions
		 FROM activities WHERE process_key = $1 AND activity_key = $2`,
		processKey, activityKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("activityRepo.GetActivity: %w", err)
	}

	activity := &domain.Activity{
		ProcessKey:        row.ProcessKey,
		Key:               row.ActivityKey,
		Label:             row.Label,
		AllowAttachments:  row.AllowAttachments,
		MaxAttachmentSize: row.MaxAttachmentSize,
		Fields:            make(map[string]domain.Field),
	}
	if len(row.Actions) > 0 {
		if err := json.Unmarshal(row.Actions, &activity.Actions); err != nil {
			return nil, fmt.Errorf("%w: actions of %s/%s: %v", domain.ErrInvalidFieldConfig, processKey, activityKey, err)
		}
	}

	var rows []fieldRow
	err = r.db.SelectContext(ctx, &rows,
		`SELECT id, name, label, field_type, required, editable, restricted, deleted,
		        pattern, mask, min_value_length, max_value_length, min_inputs, max_inputs,
		        options, constraints
		 FROM activity_fields WHERE process_key = $1 AND activity_key = $2
		 ORDER BY id`,
		processKey, activityKey)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.GetActivity fields: %w", err)
	}
	for i := range rows {
		field, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: field %s of %s/%s: %v", domain.ErrInvalidFieldConfig, rows[i].ID, processKey, activityKey, err)
		}
		activity.Fields[field.ID] = field
	}
	return activity, nil
}

func (r *activityRepo) ListActivityKeys(ctx context.Context, processKey string) ([]string, error) {
	if err := r.ensureDeployment(ctx, processKey); err != nil {
		return nil, err
	}
	var keys []string
	err := r.db.SelectContext(ctx, &keys,
		"SELECT activity_key FROM activities WHERE process_key = $1 ORDER BY activity_key",
		processKey)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.ListActivityKeys: %w", err)
	}
	return keys, nil
}

func (r *activityRepo) ensureDeployment(ctx context.Context, processKey string) error {
	var active bool
	err := r.db.GetContext(ctx, &active,
		"SELECT is_active FROM process_deployments WHERE process_key = $1", processKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNoDeployment
		}
		return fmt.Errorf("activityRepo.ensureDeployment: %w", err)
	}
	if !active {
		return domain.ErrNoDeployment
	}
	return nil
}

func (f *fieldRow) toDomain() (domain.Field, error) {
	field := domain.Field{
		ID:             f.ID,
		Name:           f.Name,
		Label:          f.Label,
		Type:           domain.FieldType(f.FieldType),
		Required:       f.Required,
		Editable:       f.Editable,
		Restricted:     f.Restricted,
		Deleted:        f.Deleted,
		Pattern:        f.Pattern,
		Mask:           f.Mask,
		MinValueLength: f.MinValueLength,
		MaxValueLength: f.MaxValueLength,
		MinInputs:      f.MinInputs,
		MaxInputs:      f.MaxInputs,
	}
	if len(f.Options) > 0 {
		if err := json.Unmarshal(f.Options, &field.Options); err != nil {
			return field, fmt.Errorf("options: %w", err)
		}
	}
	if len(f.Constraints) > 0 {
		if err := json.Unmarshal(f.Constraints, &field.Constraints); err != nil {
			return field, fmt.Errorf("constraints: %w", err)
		}
	}
	return field, nil
}
