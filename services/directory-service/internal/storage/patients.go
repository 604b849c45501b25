package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/model"
)

type PatientRepository struct {
	pool *db.Pool
}

func NewPatientRepository(pool *db.Pool) *PatientRepository {
	return &PatientRepository{pool: pool}
}

func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) (string, error) {
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, full_name, phone, email, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, id, p.FullName, p.Phone, p.Email, p.Notes)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PatientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	var p model.Patient
	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, phone, email, notes, created_at
		FROM patients
		WHERE id::text = $1
	`, id).Scan(&p.ID, &p.FullName, &p.Phone, &p.Email, &p.Notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context, search string, limit int) ([]model.Patient, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, phone, email, notes, created_at
		FROM patients
		WHERE ($1 = '' OR full_name ILIKE '%' || $1 || '%')
		ORDER BY full_name
		LIMIT $2
	`, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []model.Patient
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.FullName, &p.Phone, &p.Email, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return patients, nil
}

// IsDuplicate reports a unique-constraint violation, e.g. a doctor or
// department name that is already taken.
func IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
