package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-records-service/internal/api/dto"
	"github.com/spec-kit/hr-records-service/internal/auth"
	"github.com/spec-kit/hr-records-service/internal/domain"
	"github.com/spec-kit/hr-records-service/internal/service"
	apperrors "github.com/spec-kit/hr-records-service/pkg/util"
)

// EmployeesHandler manages employee record endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// List handles GET /api/employee.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	employees, err := h.employees.List(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeSummary, 0, len(employees))
	for i := range employees {
		items = append(items, employeeSummary(&employees[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /api/employee.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EmployeeWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.employees.Create(c.Context(), principal.User.ID, writeInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": employeeSummary(employee)})
}

// Get handles GET /api/employee/:id, returning the detail shape with
// related tags and departments expanded inline.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	employee, err := h.employees.Get(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeDetail(employee)})
}

// Patch handles PATCH /api/employee/:id.
func (h *EmployeesHandler) Patch(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EmployeePatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.employees.PartialUpdate(c.Context(), principal.User.ID, c.Params("id"), service.EmployeeUpdateInput{
		Title:         req.Title,
		Experience:    req.Experience,
		Salary:        req.Salary,
		Link:          req.Link,
		TagIDs:        req.Tags,
		DepartmentIDs: req.Departments,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeSummary(employee)})
}

// Put handles PUT /api/employee/:id. Relation arrays omitted from the
// payload clear the stored sets.
func (h *EmployeesHandler) Put(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EmployeeWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.employees.FullUpdate(c.Context(), principal.User.ID, c.Params("id"), writeInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeSummary(employee)})
}

// Delete handles DELETE /api/employee/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.employees.Delete(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadImage handles POST /api/employee/:id/upload-image with a multipart
// "image" field.
func (h *EmployeesHandler) UploadImage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image file required", map[string]any{
			"image": "no file was submitted",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable image", nil)
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewValidationError("unreadable image", nil)
	}

	employee, err := h.employees.AttachImage(c.Context(), principal.User.ID, c.Params("id"), fileHeader.Filename, payload)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EmployeeImageResponse{
		ID:    employee.ID,
		Image: employee.ImagePath,
	}})
}

func writeInput(req dto.EmployeeWriteRequest) service.EmployeeCreateInput {
	return service.EmployeeCreateInput{
		Title:         req.Title,
		Experience:    req.Experience,
		Salary:        req.Salary,
		Link:          req.Link,
		TagIDs:        req.Tags,
		DepartmentIDs: req.Departments,
	}
}

func employeeSummary(employee *domain.Employee) dto.EmployeeSummary {
	tags := employee.TagIDs
	if tags == nil {
		tags = []string{}
	}
	departments := employee.DepartmentIDs
	if departments == nil {
		departments = []string{}
	}
	return dto.EmployeeSummary{
		ID:          employee.ID,
		Title:       employee.Title,
		Experience:  employee.Experience,
		Salary:      employee.Salary,
		Link:        employee.Link,
		Tags:        tags,
		Departments: departments,
		Image:       employee.ImagePath,
	}
}

func employeeDetail(employee *domain.Employee) dto.EmployeeDetail {
	tags := make([]dto.TagResponse, 0, len(employee.Tags))
	for _, tag := range employee.Tags {
		tags = append(tags, dto.TagResponse{ID: tag.ID, Name: tag.Name})
	}
	departments := make([]dto.DepartmentResponse, 0, len(employee.Departments))
	for _, dept := range employee.Departments {
		departments = append(departments, dto.DepartmentResponse{ID: dept.ID, Name: dept.Name})
	}
	return dto.EmployeeDetail{
		ID:          employee.ID,
		Title:       employee.Title,
		Experience:  employee.Experience,
		Salary:      employee.Salary,
		Link:        employee.Link,
		Tags:        tags,
		Departments: departments,
		Image:       employee.ImagePath,
	}
}
