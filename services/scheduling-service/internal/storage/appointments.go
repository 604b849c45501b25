package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Create inserts a new scheduled appointment. The partial unique index on
// (doctor_ref, visit_date, slot_time) for non-cancelled rows backs up the
// in-memory conflict check; a violation surfaces through IsConflict.
func (r *AppointmentRepository) Create(ctx context.Context, tx pgx.Tx, appt *model.Appointment) (string, error) {
	id := appt.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_ref, visit_date, slot_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, appt.PatientID, appt.DoctorRef, appt.VisitDate, appt.SlotTime, appt.Status, appt.Notes)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *AppointmentRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (model.Appointment, error) {
	return scanAppointment(tx.QueryRow(ctx, `
		SELECT id, patient_id, doctor_ref, visit_date, slot_time, status, notes, created_at
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id))
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_ref, visit_date, slot_time, status, notes, created_at
		FROM appointments
		WHERE id = $1
	`, id))
}

// ListForDoctorDate returns every appointment on a date whose doctor
// reference matches any of refs (canonical id and legacy display name). The
// availability engine re-filters, so over-fetching is harmless.
func (r *AppointmentRepository) ListForDoctorDate(ctx context.Context, refs []string, date string) ([]model.Appointment, error) {
	lowered := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.ToLower(strings.TrimSpace(ref))
		if ref != "" {
			lowered = append(lowered, ref)
		}
	}
	if len(lowered) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_ref, visit_date, slot_time, status, notes, created_at
		FROM appointments
		WHERE visit_date = $1 AND lower(doctor_ref) = ANY($2)
		ORDER BY slot_time, created_at
	`, date, lowered)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

type AppointmentFilter struct {
	DoctorRef string
	Date      string
	PatientID string
	Limit     int
}

func (r *AppointmentRepository) List(ctx context.Context, f AppointmentFilter) ([]model.Appointment, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_ref, visit_date, slot_time, status, notes, created_at
		FROM appointments
		WHERE ($1 = '' OR lower(doctor_ref) = lower($1))
			AND ($2 = '' OR visit_date = $2)
			AND ($3 = '' OR patient_id = $3)
		ORDER BY visit_date DESC, slot_time
		LIMIT $4
	`, f.DoctorRef, f.Date, f.PatientID, f.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// TransitionStatus moves an appointment out of scheduled. The status guard in
// the WHERE clause makes the transition atomic: a concurrent transition wins
// and this one reports no rows.
func (r *AppointmentRepository) TransitionStatus(ctx context.Context, tx pgx.Tx, id, to string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'scheduled'
	`, id, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateFields edits date/time/notes of an appointment. Empty values keep the
// stored ones. The slot guard index still applies.
func (r *AppointmentRepository) UpdateFields(ctx context.Context, tx pgx.Tx, id, date, slot, notes string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE appointments
		SET visit_date = COALESCE(NULLIF($2, ''), visit_date),
			slot_time = COALESCE(NULLIF($3, ''), slot_time),
			notes = COALESCE(NULLIF($4, ''), notes),
			updated_at = now()
		WHERE id = $1
	`, id, date, slot, notes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func collectAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	var appts []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorRef, &a.VisitDate, &a.SlotTime, &a.Status, &a.Notes, &a.CreatedAt); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var a model.Appointment
	var createdAt time.Time
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorRef, &a.VisitDate, &a.SlotTime, &a.Status, &a.Notes, &createdAt)
	if err != nil {
		return model.Appointment{}, err
	}
	a.CreatedAt = createdAt
	return a, nil
}

// IsConflict reports whether err is the slot-guard unique violation (or an
// exclusion-constraint violation), i.e. the slot was taken between the
// availability check and the write.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23P01")
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
