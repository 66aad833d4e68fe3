// Package memory provides in-memory implementations of the repository
// interfaces. They honor the same contracts as the Postgres versions
// (owner scoping, ordering, pgx.ErrNoRows on misses) and back the test
// suite as well as local runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-records-service/internal/domain"
	"github.com/spec-kit/hr-records-service/internal/repository"
)

// UserRepository keeps accounts in a map keyed by id.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserRepository builds an empty store.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// TagRepository keeps tags in a map keyed by id.
type TagRepository struct {
	mu   sync.RWMutex
	tags map[string]domain.Tag
}

// NewTagRepository builds an empty store.
func NewTagRepository() *TagRepository {
	return &TagRepository{tags: make(map[string]domain.Tag)}
}

var _ repository.TagRepository = (*TagRepository)(nil)

func (r *TagRepository) Create(_ context.Context, tag *domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag.ID = uuid.NewString()
	r.tags[tag.ID] = *tag
	return nil
}

func (r *TagRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Tag
	for _, tag := range r.tags {
		if tag.UserID == ownerID {
			result = append(result, tag)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name > result[j].Name })
	return result, nil
}

func (r *TagRepository) GetOwnedByIDs(_ context.Context, ownerID string, ids []string) ([]domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Tag
	for _, id := range ids {
		tag, ok := r.tags[id]
		if ok && tag.UserID == ownerID {
			result = append(result, tag)
		}
	}
	return result, nil
}

// DepartmentRepository keeps departments in a map keyed by id.
type DepartmentRepository struct {
	mu          sync.RWMutex
	departments map[string]domain.Department
}

// NewDepartmentRepository builds an empty store.
func NewDepartmentRepository() *DepartmentRepository {
	return &DepartmentRepository{departments: make(map[string]domain.Department)}
}

var _ repository.DepartmentRepository = (*DepartmentRepository)(nil)

func (r *DepartmentRepository) Create(_ context.Context, dept *domain.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dept.ID = uuid.NewString()
	r.departments[dept.ID] = *dept
	return nil
}

func (r *DepartmentRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Department
	for _, dept := range r.departments {
		if dept.UserID == ownerID {
			result = append(result, dept)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name > result[j].Name })
	return result, nil
}

func (r *DepartmentRepository) GetOwnedByIDs(_ context.Context, ownerID string, ids []string) ([]domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Department
	for _, id := range ids {
		dept, ok := r.departments[id]
		if ok && dept.UserID == ownerID {
			result = append(result, dept)
		}
	}
	return result, nil
}

// EmployeeRepository keeps employees plus their relation id sets.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]domain.Employee
	tags      *TagRepository
	depts     *DepartmentRepository
}

// NewEmployeeRepository builds an empty store that resolves relations through
// the given catalog stores.
func NewEmployeeRepository(tags *TagRepository, depts *DepartmentRepository) *EmployeeRepository {
	return &EmployeeRepository{
		employees: make(map[string]domain.Employee),
		tags:      tags,
		depts:     depts,
	}
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)

func (r *EmployeeRepository) Create(_ context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee.ID = uuid.NewString()
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt
	r.employees[employee.ID] = copyEmployee(*employee)
	return nil
}

func (r *EmployeeRepository) Update(_ context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.employees[employee.ID]
	if !ok || stored.UserID != employee.UserID {
		return pgx.ErrNoRows
	}
	stored.Title = employee.Title
	stored.Experience = employee.Experience
	stored.Salary = employee.Salary
	stored.Link = employee.Link
	stored.UpdatedAt = time.Now()
	r.employees[employee.ID] = stored
	return nil
}

func (r *EmployeeRepository) UpdateImagePath(_ context.Context, ownerID, id, imagePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.employees[id]
	if !ok || stored.UserID != ownerID {
		return pgx.ErrNoRows
	}
	stored.ImagePath = &imagePath
	stored.UpdatedAt = time.Now()
	r.employees[id] = stored
	return nil
}

func (r *EmployeeRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.employees[id]
	if !ok || stored.UserID != ownerID {
		return pgx.ErrNoRows
	}
	delete(r.employees, id)
	return nil
}

func (r *EmployeeRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Employee, error) {
	r.mu.RLock()
	stored, ok := r.employees[id]
	r.mu.RUnlock()
	if !ok || stored.UserID != ownerID {
		return nil, pgx.ErrNoRows
	}

	employee := copyEmployee(stored)
	tags, err := r.tags.GetOwnedByIDs(ctx, ownerID, employee.TagIDs)
	if err != nil {
		return nil, err
	}
	depts, err := r.depts.GetOwnedByIDs(ctx, ownerID, employee.DepartmentIDs)
	if err != nil {
		return nil, err
	}
	employee.Tags = tags
	employee.Departments = depts
	return &employee, nil
}

func (r *EmployeeRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Employee
	for _, employee := range r.employees {
		if employee.UserID == ownerID {
			result = append(result, copyEmployee(employee))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *EmployeeRepository) ReplaceTags(_ context.Context, employeeID string, tagIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.employees[employeeID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.TagIDs = append([]string(nil), tagIDs...)
	r.employees[employeeID] = stored
	return nil
}

func (r *EmployeeRepository) ReplaceDepartments(_ context.Context, employeeID string, departmentIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.employees[employeeID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.DepartmentIDs = append([]string(nil), departmentIDs...)
	r.employees[employeeID] = stored
	return nil
}

func copyEmployee(e domain.Employee) domain.Employee {
	e.TagIDs = append([]string(nil), e.TagIDs...)
	e.DepartmentIDs = append([]string(nil), e.DepartmentIDs...)
	e.Tags = nil
	e.Departments = nil
	return e
}
