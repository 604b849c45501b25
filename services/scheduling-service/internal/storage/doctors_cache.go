package storage

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

// DoctorCacheRepository is the local replica of directory-service doctor
// records, kept current by consuming directory.doctor.updated.v1 events.
// Availability always reads this cache so slot computation never blocks on a
// cross-service call.
type DoctorCacheRepository struct {
	pool *db.Pool
}

func NewDoctorCacheRepository(pool *db.Pool) *DoctorCacheRepository {
	return &DoctorCacheRepository{pool: pool}
}

func (r *DoctorCacheRepository) Upsert(ctx context.Context, tx pgx.Tx, doc model.Doctor) error {
	scheduleJSON, err := json.Marshal(doc.WorkSchedule)
	if err != nil {
		return err
	}
	fallbackJSON, err := json.Marshal(doc.FallbackSlots)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO doctors_cache (doctor_id, full_name, department, work_schedule, fallback_slots, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (doctor_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
			department = EXCLUDED.department,
			work_schedule = EXCLUDED.work_schedule,
			fallback_slots = EXCLUDED.fallback_slots,
			updated_at = now()
	`, doc.ID, doc.FullName, doc.Department, scheduleJSON, fallbackJSON)
	return err
}

// GetByRef resolves a doctor by canonical id or legacy display name. Not
// finding one is not an error here: the scheduling core is specified to
// degrade gracefully, so callers receive (nil, nil) and fall back.
func (r *DoctorCacheRepository) GetByRef(ctx context.Context, ref string) (*model.Doctor, error) {
	var doc model.Doctor
	var scheduleJSON, fallbackJSON []byte
	err := r.pool.QueryRow(ctx, `
		SELECT doctor_id, full_name, department, work_schedule, fallback_slots
		FROM doctors_cache
		WHERE doctor_id = $1 OR lower(full_name) = lower($1)
		LIMIT 1
	`, ref).Scan(&doc.ID, &doc.FullName, &doc.Department, &scheduleJSON, &fallbackJSON)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
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
