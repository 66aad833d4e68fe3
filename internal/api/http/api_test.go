package http_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hr-records-service/internal/api/http"
	"github.com/spec-kit/hr-records-service/internal/api/http/handlers"
	"github.com/spec-kit/hr-records-service/internal/auth"
	"github.com/spec-kit/hr-records-service/internal/config"
	"github.com/spec-kit/hr-records-service/internal/observability"
	"github.com/spec-kit/hr-records-service/internal/persistence"
	"github.com/spec-kit/hr-records-service/internal/repository/memory"
	"github.com/spec-kit/hr-records-service/internal/service"
	"github.com/spec-kit/hr-records-service/internal/storage"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
			MinPasswordLength:     6,
		},
	}

	users := memory.NewUserRepository()
	tags := memory.NewTagRepository()
	departments := memory.NewDepartmentRepository()
	employees := memory.NewEmployeeRepository(tags, departments)
	revocations := auth.NewMemoryRevocationStore()

	accountService := service.NewAccountService(cfg, service.AccountDependencies{
		UserRepo:        users,
		RevocationStore: revocations,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		TagRepo:        tags,
		DepartmentRepo: departments,
	})
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo:   employees,
		TagRepo:        tags,
		DepartmentRepo: departments,
		ImageStore:     storage.NewImageStore(t.TempDir()),
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Users:          handlers.NewUsersHandler(accountService),
		Tags:           handlers.NewTagsHandler(catalogService),
		Departments:    handlers.NewDepartmentsHandler(catalogService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
		AuthMiddleware: auth.NewAuthMiddleware(accountService.TokenManager(), users, revocations),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp, parsed
}

func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp, _ := doJSON(t, app, "POST", "/api/users", "", fiber.Map{
		"email": email, "name": "Test", "password": "testpass",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/users/login", "", fiber.Map{
		"email": email, "password": "testpass",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	authData := data["auth"].(map[string]any)
	return authData["token"].(string)
}

func TestRegisterExcludesPassword(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/users", "", fiber.Map{
		"email": "Test@TANGENT.com", "name": "Test", "password": "testpass",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "test@tangent.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/users", "", fiber.Map{
		"email": "test@tangent.com", "password": "testpass",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/users", "", fiber.Map{
		"email": "test@tangent.com", "password": "otherpass",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "error")
}

func TestRegisterShortPassword(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/users", "", fiber.Map{
		"email": "test@tangent.com", "password": "pw",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	// the account must not have been persisted
	resp, _ = doJSON(t, app, "POST", "/api/users/login", "", fiber.Map{
		"email": "test@tangent.com", "password": "pw",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/tags"},
		{"POST", "/api/tags"},
		{"GET", "/api/department"},
		{"POST", "/api/department"},
		{"GET", "/api/employee"},
		{"POST", "/api/employee"},
		{"GET", "/api/employee/some-id"},
		{"POST", "/api/employee/some-id/upload-image"},
	} {
		resp, _ := doJSON(t, app, route.method, route.path, "", nil)
		assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

func TestTagsScopedToOwner(t *testing.T) {
	app := newTestApp(t)
	tokenA := registerAndLogin(t, app, "a@tangent.com")
	tokenB := registerAndLogin(t, app, "b@tangent.com")

	resp, _ := doJSON(t, app, "POST", "/api/tags", tokenA, fiber.Map{"name": "Fulltime"})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "GET", "/api/tags", tokenB, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])

	resp, body = doJSON(t, app, "GET", "/api/tags", tokenA, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Len(t, body["data"], 1)
}

func TestCreateTagEmptyName(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "a@tangent.com")

	resp, _ := doJSON(t, app, "POST", "/api/tags", token, fiber.Map{"name": ""})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestEmployeeLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "a@tangent.com")

	resp, body := doJSON(t, app, "POST", "/api/tags", token, fiber.Map{"name": "Senior"})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	tagID := body["data"].(map[string]any)["id"].(string)

	resp, body = doJSON(t, app, "POST", "/api/department", token, fiber.Map{"name": "Engineering"})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	deptID := body["data"].(map[string]any)["id"].(string)

	resp, body = doJSON(t, app, "POST", "/api/employee", token, fiber.Map{
		"title":      "Sample employee",
		"experience": 10,
		"salary":     "5.00",
		"tags":       []string{tagID},
		"department": []string{deptID},
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	created := body["data"].(map[string]any)
	employeeID := created["id"].(string)
	assert.Equal(t, []any{tagID}, created["tags"])

	// detail expands relations inline
	resp, body = doJSON(t, app, "GET", "/api/employee/"+employeeID, token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	detail := body["data"].(map[string]any)
	tagObjs := detail["tags"].([]any)
	require.Len(t, tagObjs, 1)
	assert.Equal(t, "Senior", tagObjs[0].(map[string]any)["name"])

	// PUT without tags clears the tag set
	resp, body = doJSON(t, app, "PUT", "/api/employee/"+employeeID, token, fiber.Map{
		"title":      "Updated",
		"experience": 3,
		"salary":     "7.50",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	updated := body["data"].(map[string]any)
	assert.Empty(t, updated["tags"])

	// PATCH replaces only what is provided
	resp, body = doJSON(t, app, "PATCH", "/api/employee/"+employeeID, token, fiber.Map{
		"tags": []string{tagID},
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	patched := body["data"].(map[string]any)
	assert.Equal(t, []any{tagID}, patched["tags"])
	assert.Equal(t, "Updated", patched["title"])

	resp, _ = doJSON(t, app, "DELETE", "/api/employee/"+employeeID, token, nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/employee/"+employeeID, token, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestEmployeeNotOwnedIsNotFound(t *testing.T) {
	app := newTestApp(t)
	tokenA := registerAndLogin(t, app, "a@tangent.com")
	tokenB := registerAndLogin(t, app, "b@tangent.com")

	resp, body := doJSON(t, app, "POST", "/api/employee", tokenA, fiber.Map{
		"title": "Sample employee", "experience": 10, "salary": "5.00",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	employeeID := body["data"].(map[string]any)["id"].(string)

	resp, _ = doJSON(t, app, "GET", "/api/employee/"+employeeID, tokenB, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func uploadImage(t *testing.T, app *fiber.App, token, employeeID, filename string, payload []byte) *nethttp.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/employee/"+employeeID+"/upload-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadImage(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "a@tangent.com")

	resp, body := doJSON(t, app, "POST", "/api/employee", token, fiber.Map{
		"title": "Sample employee", "experience": 10, "salary": "5.00",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	employeeID := body["data"].(map[string]any)["id"].(string)

	var png1x1 bytes.Buffer
	require.NoError(t, png.Encode(&png1x1, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	resp = uploadImage(t, app, token, employeeID, "photo.png", png1x1.Bytes())
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	data := parsed["data"].(map[string]any)
	assert.Equal(t, employeeID, data["id"])
	imagePath := data["image"].(string)
	assert.True(t, strings.Contains(imagePath, "uploads"))
	assert.NotContains(t, imagePath, "photo")
}

func TestUploadNonImageRejected(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "a@tangent.com")

	resp, body := doJSON(t, app, "POST", "/api/employee", token, fiber.Map{
		"title": "Sample employee", "experience": 10, "salary": "5.00",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	employeeID := body["data"].(map[string]any)["id"].(string)

	resp = uploadImage(t, app, token, employeeID, "notimage.jpg", []byte("notimage"))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	// the stored record keeps no image
	resp, body = doJSON(t, app, "GET", "/api/employee/"+employeeID, token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	detail := body["data"].(map[string]any)
	assert.Nil(t, detail["image"])
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "a@tangent.com")

	resp, _ := doJSON(t, app, "GET", "/api/users/me", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/users/logout", token, nil)
	require.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/users/me", token, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "a@tangent.com")

	resp, body := doJSON(t, app, "PATCH", "/api/users/me", token, fiber.Map{
		"name": "Renamed",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Renamed", data["name"])
	assert.Equal(t, "a@tangent.com", data["email"])
}
