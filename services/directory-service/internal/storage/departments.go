package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/nafiz-ahmed/meddesk/libs/db"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/model"
)

type DepartmentRepository struct {
	pool *db.Pool
}

func NewDepartmentRepository(pool *db.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *model.Department) (string, error) {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO departments (id, name, description)
		VALUES ($1, $2, $3)
	`, id, d.Name, d.Description)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]model.Department, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, created_at
		FROM departments
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return departments, nil
}
