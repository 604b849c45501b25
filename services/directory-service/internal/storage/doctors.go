package storage

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/model"
)

// DoctorRepository is the authoritative store for doctor records. Every write
// happens inside a tx alongside an outbox event, so downstream caches never
// miss an update.
type DoctorRepository struct {
	pool *db.Pool
}

func NewDoctorRepository(pool *db.Pool) *DoctorRepository {
	return &DoctorRepository{pool: pool}
}

func (r *DoctorRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *DoctorRepository) Create(ctx context.Context, tx pgx.Tx, doc *model.Doctor) (string, error) {
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	scheduleJSON, fallbackJSON, err := marshalSchedule(doc)
	if err != nil {
		return "", err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO doctors (id, full_name, department, work_schedule, fallback_slots)
		VALUES ($1, $2, $3, $4, $5)
	`, id, doc.FullName, doc.Department, scheduleJSON, fallbackJSON)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *DoctorRepository) Update(ctx context.Context, tx pgx.Tx, doc *model.Doctor) (bool, error) {
	scheduleJSON, fallbackJSON, err := marshalSchedule(doc)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE doctors
		SET full_name = COALESCE(NULLIF($2, ''), full_name),
			department = COALESCE(NULLIF($3, ''), department),
			work_schedule = $4,
			fallback_slots = $5,
			updated_at = now()
		WHERE id = $1
	`, doc.ID, doc.FullName, doc.Department, scheduleJSON, fallbackJSON)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetForUpdate locks the doctor row so schedule edits serialize with other
// writers in the same tx.
func (r *DoctorRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*model.Doctor, error) {
	return scanDoctor(tx.QueryRow(ctx, `
		SELECT id, full_name, department, work_schedule, fallback_slots, created_at, updated_at
		FROM doctors
		WHERE id = $1
		FOR UPDATE
	`, id))
}

// GetByRef resolves a doctor by id or, for legacy callers, by display name.
func (r *DoctorRepository) GetByRef(ctx context.Context, ref string) (*model.Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `
		SELECT id, full_name, department, work_schedule, fallback_slots, created_at, updated_at
		FROM doctors
		WHERE id::text = $1 OR lower(full_name) = lower($1)
		LIMIT 1
	`, ref))
}

func (r *DoctorRepository) List(ctx context.Context, department string, limit int) ([]model.Doctor, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, department, work_schedule, fallback_slots, created_at, updated_at
		FROM doctors
		WHERE ($1 = '' OR lower(department) = lower($1))
		ORDER BY full_name
		LIMIT $2
	`, department, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Doctor
	for rows.Next() {
		doc, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return docs, nil
}

func marshalSchedule(doc *model.Doctor) ([]byte, []byte, error) {
	schedule := doc.WorkSchedule
	if schedule == nil {
		schedule = model.WorkSchedule{}
	}
	fallback := doc.FallbackSlots
	if fallback == nil {
		fallback = []string{}
	}
	scheduleJSON, err := json.Marshal(schedule)
	if err != nil {
		return nil, nil, err
	}
	fallbackJSON, err := json.Marshal(fallback)
	if err != nil {
		return nil, nil, err
	}
	return scheduleJSON, fallbackJSON, nil
}

func scanDoctor(row pgx.Row) (*model.Doctor, error) {
	var doc model.Doctor
	var scheduleJSON, fallbackJSON []byte
	err := row.Scan(&doc.ID, &doc.FullName, &doc.Department, &scheduleJSON, &fallbackJSON, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(scheduleJSON) > 0 {
		if err := json.Unmarshal(scheduleJSON, &doc.WorkSchedule); err != nil {
			return nil, err
		}
	}
	if len(fallbackJSON) > 0 {
		if err := json.Unmarshal(fallbackJSON, &doc.FallbackSlots); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}
