package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hr-records-service/internal/domain"
)

// DepartmentRepository manages department persistence. All reads are owner-scoped.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Department, error)
	GetOwnedByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (user_id, name)
        VALUES ($1,$2)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		dept.UserID,
		dept.Name,
	).Scan(&dept.ID)
}

func (r *departmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Department, error) {
	const query = `
        SELECT id, user_id, name
        FROM departments WHERE user_id=$1
        ORDER BY name DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.UserID, &dept.Name); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) GetOwnedByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
        SELECT id, user_id, name
        FROM departments WHERE user_id=$1 AND id = ANY($2)`
	rows, err := r.pool.Query(ctx, query, ownerID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.UserID, &dept.Name); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}
