package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hr-records-service/internal/domain"
)

// EmployeeRepository encapsulates employee persistence including the
// tag/department join tables. All reads and writes are owner-scoped.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	UpdateImagePath(ctx context.Context, ownerID, id, imagePath string) error
	Delete(ctx context.Context, ownerID, id string) error
	GetByOwner(ctx context.Context, ownerID, id string) (*domain.Employee, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Employee, error)
	ReplaceTags(ctx context.Context, employeeID string, tagIDs []string) error
	ReplaceDepartments(ctx context.Context, employeeID string, departmentIDs []string) error
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO employees (user_id, title, experience, salary, link, image_path)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		employee.UserID,
		employee.Title,
		employee.Experience,
		employee.Salary,
		employee.Link,
		employee.ImagePath,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt); err != nil {
		return err
	}

	if err := insertRelations(ctx, tx, "employee_tags", "tag_id", employee.ID, employee.TagIDs); err != nil {
		return err
	}
	if err := insertRelations(ctx, tx, "employee_departments", "department_id", employee.ID, employee.DepartmentIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees SET title=$1, experience=$2, salary=$3, link=$4, updated_at=NOW()
        WHERE id=$5 AND user_id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		employee.Title,
		employee.Experience,
		employee.Salary,
		employee.Link,
		employee.ID,
		employee.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) UpdateImagePath(ctx context.Context, ownerID, id, imagePath string) error {
	const query = `
        UPDATE employees SET image_path=$1, updated_at=NOW()
        WHERE id=$2 AND user_id=$3`
	cmd, err := r.pool.Exec(ctx, query, imagePath, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM employees WHERE id=$1 AND user_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Employee, error) {
	const query = `
        SELECT id, user_id, title, experience, salary::text, link, image_path, created_at, updated_at
        FROM employees WHERE id=$1 AND user_id=$2`

	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&employee.ID,
		&employee.UserID,
		&employee.Title,
		&employee.Experience,
		&employee.Salary,
		&employee.Link,
		&employee.ImagePath,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tags, err := r.loadTags(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	departments, err := r.loadDepartments(ctx, employee.ID)
	if err != nil {
		return nil, err
	}

	employee.Tags = tags
	employee.Departments = departments
	for _, tag := range tags {
		employee.TagIDs = append(employee.TagIDs, tag.ID)
	}
	for _, dept := range departments {
		employee.DepartmentIDs = append(employee.DepartmentIDs, dept.ID)
	}
	return &employee, nil
}

func (r *employeeRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Employee, error) {
	const query = `
        SELECT id, user_id, title, experience, salary::text, link, image_path, created_at, updated_at
        FROM employees WHERE user_id=$1
        ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.UserID,
			&employee.Title,
			&employee.Experience,
			&employee.Salary,
			&employee.Link,
			&employee.ImagePath,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadRelationIDs(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *employeeRepository) ReplaceTags(ctx context.Context, employeeID string, tagIDs []string) error {
	return r.replaceRelations(ctx, "employee_tags", "tag_id", employeeID, tagIDs)
}

func (r *employeeRepository) ReplaceDepartments(ctx context.Context, employeeID string, departmentIDs []string) error {
	return r.replaceRelations(ctx, "employee_departments", "department_id", employeeID, departmentIDs)
}

func (r *employeeRepository) replaceRelations(ctx context.Context, table, column, employeeID string, ids []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE employee_id=$1`, employeeID); err != nil {
		return err
	}
	if err := insertRelations(ctx, tx, table, column, employeeID, ids); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertRelations(ctx context.Context, tx pgx.Tx, table, column, employeeID string, ids []string) error {
	for _, id := range ids {
		query := `INSERT INTO ` + table + ` (employee_id, ` + column + `) VALUES ($1,$2)`
		if _, err := tx.Exec(ctx, query, employeeID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *employeeRepository) loadTags(ctx context.Context, employeeID string) ([]domain.Tag, error) {
	const query = `
        SELECT t.id, t.user_id, t.name
        FROM tags t
        JOIN employee_tags et ON et.tag_id = t.id
        WHERE et.employee_id=$1`
	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	return result, rows.Err()
}

func (r *employeeRepository) loadDepartments(ctx context.Context, employeeID string) ([]domain.Department, error) {
	const query = `
        SELECT d.id, d.user_id, d.name
        FROM departments d
        JOIN employee_departments ed ON ed.department_id = d.id
        WHERE ed.employee_id=$1`
	rows, err := r.pool.Query(ctx, query, employeeID)
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

// loadRelationIDs fills TagIDs/DepartmentIDs for a page of employees with one
// query per join table.
func (r *employeeRepository) loadRelationIDs(ctx context.Context, employees []domain.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	index := make(map[string]*domain.Employee, len(employees))
	ids := make([]string, 0, len(employees))
	for i := range employees {
		index[employees[i].ID] = &employees[i]
		ids = append(ids, employees[i].ID)
	}

	tagRows, err := r.pool.Query(ctx,
		`SELECT employee_id, tag_id FROM employee_tags WHERE employee_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var employeeID, tagID string
		if err := tagRows.Scan(&employeeID, &tagID); err != nil {
			return err
		}
		if emp, ok := index[employeeID]; ok {
			emp.TagIDs = append(emp.TagIDs, tagID)
		}
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	deptRows, err := r.pool.Query(ctx,
		`SELECT employee_id, department_id FROM employee_departments WHERE employee_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer deptRows.Close()
	for deptRows.Next() {
		var employeeID, deptID string
		if err := deptRows.Scan(&employeeID, &deptID); err != nil {
			return err
		}
		if emp, ok := index[employeeID]; ok {
			emp.DepartmentIDs = append(emp.DepartmentIDs, deptID)
		}
	}
	return deptRows.Err()
}
