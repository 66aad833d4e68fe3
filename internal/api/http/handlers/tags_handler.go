package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-records-service/internal/api/dto"
	"github.com/spec-kit/hr-records-service/internal/auth"
	"github.com/spec-kit/hr-records-service/internal/service"
	apperrors "github.com/spec-kit/hr-records-service/pkg/util"
)

// TagsHandler manages the caller's tag catalog.
type TagsHandler struct {
	catalog *service.CatalogService
}

// NewTagsHandler constructs handler.
func NewTagsHandler(catalog *service.CatalogService) *TagsHandler {
	return &TagsHandler{catalog: catalog}
}

// List handles GET /api/tags.
func (h *TagsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tags, err := h.catalog.ListTags(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, dto.TagResponse{ID: tag.ID, Name: tag.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /api/tags.
func (h *TagsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateNamedRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tag, err := h.catalog.CreateTag(c.Context(), principal.User.ID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TagResponse{ID: tag.ID, Name: tag.Name}})
}
