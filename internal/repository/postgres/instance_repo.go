package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"formflow/internal/domain"
	"formflow/internal/port"
)

type instanceRow struct {
	ID         uuid.UUID       `db:"id"`
	ProcessKey string          `db:"process_key"`
	Data       json.RawMessage `db:"data"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

type instanceRepo struct {
	db *sqlx.DB
}

// NewInstanceRepo creates a new PostgreSQL-backed InstanceRepository.
func NewInstanceRepo(db *sqlx.DB) port.InstanceRepository {
	return &instanceRepo{db: db}
}

func (r *instanceRepo) GetByID(ctx context.Context, instanceID uuid.UUID) (*domain.Instance, error) {
	var row instanceRow
	err := r.db.GetContext(ctx, &row,
		"SELECT id, process_key, data, created_at, updated_at FROM process_instances WHERE id = $1",
		instanceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInstanceNotFound
		}
		return nil, fmt.Errorf("instanceRepo.GetByID: %w", err)
	}

	instance := &domain.Instance{
		ID:         row.ID,
		ProcessKey: row.ProcessKey,
		Data:       domain.Submission{},
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &instance.Data); err != nil {
			return nil, fmt.Errorf("instanceRepo.GetByID: unmarshaling data: %w", err)
		}
	}
	return instance, nil
}
