package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-records-service/internal/api/http/handlers"
	"github.com/spec-kit/hr-records-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tags           *handlers.TagsHandler
	Departments    *handlers.DepartmentsHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/users", cfg.Users.Register)
	api.Post("/users/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/users/logout", cfg.Users.Logout)
	protected.Get("/users/me", cfg.Users.Me)
	protected.Patch("/users/me", cfg.Users.UpdateMe)

	protected.Get("/tags", cfg.Tags.List)
	protected.Post("/tags", cfg.Tags.Create)

	protected.Get("/department", cfg.Departments.List)
	protected.Post("/department", cfg.Departments.Create)

	protected.Get("/employee", cfg.Employees.List)
	protected.Post("/employee", cfg.Employees.Create)
	protected.Get("/employee/:id", cfg.Employees.Get)
	protected.Patch("/employee/:id", cfg.Employees.Patch)
	protected.Put("/employee/:id", cfg.Employees.Put)
	protected.Delete("/employee/:id", cfg.Employees.Delete)
	protected.Post("/employee/:id/upload-image", cfg.Employees.UploadImage)
}
