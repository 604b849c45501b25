package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

type WaitlistRepository struct {
	pool *db.Pool
}

func NewWaitlistRepository(pool *db.Pool) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

func (r *WaitlistRepository) Create(ctx context.Context, tx pgx.Tx, entry *model.WaitlistEntry) (string, error) {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO waitlist_entries (id, patient_id, department, preferred_date, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, id, entry.PatientID, entry.Department, entry.PreferredDate, entry.Notes)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *WaitlistRepository) List(ctx context.Context, department string, limit int) ([]model.WaitlistEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, department, preferred_date, notes, created_at
		FROM waitlist_entries
		WHERE ($1 = '' OR lower(department) = lower($1))
		ORDER BY created_at DESC
		LIMIT $2
	`, department, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.WaitlistEntry
	for rows.Next() {
		var e model.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.PatientID, &e.Department, &e.PreferredDate, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return entries, nil
}
