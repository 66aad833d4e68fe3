package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/spec-kit/hr-records-service/internal/domain"
	"github.com/spec-kit/hr-records-service/internal/repository"
	"github.com/spec-kit/hr-records-service/internal/storage"
	apperrors "github.com/spec-kit/hr-records-service/pkg/util"
)

// salaryPattern matches fixed-point decimals that fit NUMERIC(5,2).
var salaryPattern = regexp.MustCompile(`^\d{1,3}(\.\d{1,2})?$`)

// EmployeeService coordinates employee record workflows.
type EmployeeService struct {
	employees   repository.EmployeeRepository
	tags        repository.TagRepository
	departments repository.DepartmentRepository
	images      *storage.ImageStore
}

// EmployeeDependencies bundles repositories for the employee service.
type EmployeeDependencies struct {
	EmployeeRepo   repository.EmployeeRepository
	TagRepo        repository.TagRepository
	DepartmentRepo repository.DepartmentRepository
	ImageStore     *storage.ImageStore
}

// EmployeeCreateInput describes the full-write payload used by create and
// full update. Nil relation slices mean an empty set.
type EmployeeCreateInput struct {
	Title         string
	Experience    int
	Salary        string
	Link          string
	TagIDs        []string
	DepartmentIDs []string
}

// EmployeeUpdateInput describes a partial update. Nil fields are untouched;
// a non-nil relation slice replaces the whole set.
type EmployeeUpdateInput struct {
	Title         *string
	Experience    *int
	Salary        *string
	Link          *string
	TagIDs        *[]string
	DepartmentIDs *[]string
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	return &EmployeeService{
		employees:   deps.EmployeeRepo,
		tags:        deps.TagRepo,
		departments: deps.DepartmentRepo,
		images:      deps.ImageStore,
	}
}

// List returns the caller's employees, newest first, with relation ids.
func (s *EmployeeService) List(ctx context.Context, ownerID string) ([]domain.Employee, error) {
	return s.employees.ListByOwner(ctx, ownerID)
}

// Get returns one employee with related tags and departments expanded.
func (s *EmployeeService) Get(ctx context.Context, ownerID, id string) (*domain.Employee, error) {
	employee, err := s.employees.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return employee, nil
}

// Create persists a new employee owned by the caller. Referenced tag and
// department ids must belong to the caller.
func (s *EmployeeService) Create(ctx context.Context, ownerID string, input EmployeeCreateInput) (*domain.Employee, error) {
	if err := validateEmployeeFields(input.Title, input.Salary); err != nil {
		return nil, err
	}
	if err := s.resolveRelations(ctx, ownerID, input.TagIDs, input.DepartmentIDs); err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		UserID:        ownerID,
		Title:         strings.TrimSpace(input.Title),
		Experience:    input.Experience,
		Salary:        input.Salary,
		Link:          input.Link,
		TagIDs:        input.TagIDs,
		DepartmentIDs: input.DepartmentIDs,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// FullUpdate replaces every scalar field and both relation sets. Relations
// omitted from the payload are cleared, not preserved.
func (s *EmployeeService) FullUpdate(ctx context.Context, ownerID, id string, input EmployeeCreateInput) (*domain.Employee, error) {
	employee, err := s.employees.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if err := validateEmployeeFields(input.Title, input.Salary); err != nil {
		return nil, err
	}
	if err := s.resolveRelations(ctx, ownerID, input.TagIDs, input.DepartmentIDs); err != nil {
		return nil, err
	}

	employee.Title = strings.TrimSpace(input.Title)
	employee.Experience = input.Experience
	employee.Salary = input.Salary
	employee.Link = input.Link
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, notFoundOr(err)
	}
	if err := s.employees.ReplaceTags(ctx, employee.ID, input.TagIDs); err != nil {
		return nil, err
	}
	if err := s.employees.ReplaceDepartments(ctx, employee.ID, input.DepartmentIDs); err != nil {
		return nil, err
	}

	return s.Get(ctx, ownerID, id)
}

// PartialUpdate sets only the provided fields. A provided relation slice
// replaces the full set.
func (s *EmployeeService) PartialUpdate(ctx context.Context, ownerID, id string, input EmployeeUpdateInput) (*domain.Employee, error) {
	employee, err := s.employees.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.NewValidationError("title required", map[string]any{
				"title": "this field may not be blank",
			})
		}
		employee.Title = strings.TrimSpace(*input.Title)
	}
	if input.Experience != nil {
		employee.Experience = *input.Experience
	}
	if input.Salary != nil {
		if !salaryPattern.MatchString(*input.Salary) {
			return nil, invalidSalary()
		}
		employee.Salary = *input.Salary
	}
	if input.Link != nil {
		employee.Link = *input.Link
	}

	var tagIDs, deptIDs []string
	if input.TagIDs != nil {
		tagIDs = *input.TagIDs
	}
	if input.DepartmentIDs != nil {
		deptIDs = *input.DepartmentIDs
	}
	if err := s.resolveRelations(ctx, ownerID, tagIDs, deptIDs); err != nil {
		return nil, err
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, notFoundOr(err)
	}
	if input.TagIDs != nil {
		if err := s.employees.ReplaceTags(ctx, employee.ID, *input.TagIDs); err != nil {
			return nil, err
		}
	}
	if input.DepartmentIDs != nil {
		if err := s.employees.ReplaceDepartments(ctx, employee.ID, *input.DepartmentIDs); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, ownerID, id)
}

// Delete removes an employee owned by the caller.
func (s *EmployeeService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.employees.Delete(ctx, ownerID, id); err != nil {
		return notFoundOr(err)
	}
	return nil
}

// AttachImage validates and stores the payload under a freshly generated
// path, then persists the new path. The previous file, if any, is removed
// best-effort after the record update succeeds.
func (s *EmployeeService) AttachImage(ctx context.Context, ownerID, id, originalName string, payload []byte) (*domain.Employee, error) {
	employee, err := s.employees.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	relPath, err := s.images.Save(originalName, payload)
	if err != nil {
		return nil, err
	}
	if err := s.employees.UpdateImagePath(ctx, ownerID, id, relPath); err != nil {
		_ = s.images.Remove(relPath)
		return nil, notFoundOr(err)
	}

	if employee.ImagePath != nil {
		_ = s.images.Remove(*employee.ImagePath)
	}

	employee.ImagePath = &relPath
	return employee, nil
}

// resolveRelations checks that every referenced id exists within the owner's
// own catalog. Ids belonging to other users are indistinguishable from
// missing ones.
func (s *EmployeeService) resolveRelations(ctx context.Context, ownerID string, tagIDs, departmentIDs []string) error {
	if len(tagIDs) > 0 {
		tags, err := s.tags.GetOwnedByIDs(ctx, ownerID, tagIDs)
		if err != nil {
			return err
		}
		if missing := missingIDs(tagIDs, tagKeys(tags)); len(missing) > 0 {
			return apperrors.NewValidationError("unknown tags", map[string]any{
				"tags": missing,
			})
		}
	}
	if len(departmentIDs) > 0 {
		depts, err := s.departments.GetOwnedByIDs(ctx, ownerID, departmentIDs)
		if err != nil {
			return err
		}
		if missing := missingIDs(departmentIDs, deptKeys(depts)); len(missing) > 0 {
			return apperrors.NewValidationError("unknown departments", map[string]any{
				"department": missing,
			})
		}
	}
	return nil
}

func validateEmployeeFields(title, salary string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.NewValidationError("title required", map[string]any{
			"title": "this field may not be blank",
		})
	}
	if !salaryPattern.MatchString(salary) {
		return invalidSalary()
	}
	return nil
}

func invalidSalary() error {
	return apperrors.NewValidationError("invalid salary", map[string]any{
		"salary": "must be a decimal with at most 5 digits and 2 decimal places",
	})
}

func notFoundOr(err error) error {
	return apperrors.MapError(err)
}

func tagKeys(tags []domain.Tag) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag.ID] = struct{}{}
	}
	return set
}

func deptKeys(depts []domain.Department) map[string]struct{} {
	set := make(map[string]struct{}, len(depts))
	for _, dept := range depts {
		set[dept.ID] = struct{}{}
	}
	return set
}

func missingIDs(requested []string, found map[string]struct{}) []string {
	var missing []string
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
