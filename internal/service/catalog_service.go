package service

import (
	"context"
	"strings"

	"github.com/spec-kit/hr-records-service/internal/domain"
	"github.com/spec-kit/hr-records-service/internal/repository"
	apperrors "github.com/spec-kit/hr-records-service/pkg/util"
)

// CatalogService manages the per-user tag and department catalogs.
type CatalogService struct {
	tags        repository.TagRepository
	departments repository.DepartmentRepository
}

// CatalogDependencies bundles repositories for the catalog service.
type CatalogDependencies struct {
	TagRepo        repository.TagRepository
	DepartmentRepo repository.DepartmentRepository
}

// NewCatalogService builds the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{tags: deps.TagRepo, departments: deps.DepartmentRepo}
}

// ListTags returns the owner's tags, name descending.
func (s *CatalogService) ListTags(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	return s.tags.ListByOwner(ctx, ownerID)
}

// CreateTag adds a tag owned by the caller.
func (s *CatalogService) CreateTag(ctx context.Context, ownerID, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", map[string]any{
			"name": "this field may not be blank",
		})
	}
	tag := &domain.Tag{UserID: ownerID, Name: name}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ListDepartments returns the owner's departments, name descending.
func (s *CatalogService) ListDepartments(ctx context.Context, ownerID string) ([]domain.Department, error) {
	return s.departments.ListByOwner(ctx, ownerID)
}

// CreateDepartment adds a department owned by the caller.
func (s *CatalogService) CreateDepartment(ctx context.Context, ownerID, name string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", map[string]any{
			"name": "this field may not be blank",
		})
	}
	dept := &domain.Department{UserID: ownerID, Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}
