package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/model"
)

type TransferRepository struct {
	pool *db.Pool
}

func NewTransferRepository(pool *db.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

func (r *TransferRepository) Create(ctx context.Context, t *model.Transfer) (string, error) {
	id := t.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transfers (id, patient_id, from_department, to_department, reason)
		VALUES ($1, $2, $3, $4, $5)
	`, id, t.PatientID, t.FromDepartment, t.ToDepartment, t.Reason)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *TransferRepository) List(ctx context.Context, patientID string, limit int) ([]model.Transfer, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, from_department, to_department, reason, created_at
		FROM transfers
		WHERE ($1 = '' OR patient_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []model.Transfer
	for rows.Next() {
		var t model.Transfer
		if err := rows.Scan(&t.ID, &t.PatientID, &t.FromDepartment, &t.ToDepartment, &t.Reason, &t.CreatedAt); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return transfers, nil
}
