package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-records-service/internal/api/dto"
	"github.com/spec-kit/hr-records-service/internal/auth"
	"github.com/spec-kit/hr-records-service/internal/service"
	apperrors "github.com/spec-kit/hr-records-service/pkg/util"
)

// DepartmentsHandler manages the caller's department catalog.
type DepartmentsHandler struct {
	catalog *service.CatalogService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(catalog *service.CatalogService) *DepartmentsHandler {
	return &DepartmentsHandler{catalog: catalog}
}

// List handles GET /api/department.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	departments, err := h.catalog.ListDepartments(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{ID: dept.ID, Name: dept.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /api/department.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateNamedRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.catalog.CreateDepartment(c.Context(), principal.User.ID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.DepartmentResponse{ID: dept.ID, Name: dept.Name}})
}
