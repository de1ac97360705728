package provisioning

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"atelier-backend/internal/middleware"
	"atelier-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminApp(t *testing.T, sessionUser map[string]interface{}) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.Project{}, &models.Service{}, &models.TeamStatus{},
	))

	h := &Handlers{Service: &Service{DB: db, Identity: &fakeInviter{id: uuid.New().String()}}}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if sessionUser != nil {
			c.Locals("user", sessionUser)
		} else {
			c.Locals("user", nil)
		}
		return c.Next()
	})
	admin := app.Group("/api/v1/admin",
		middleware.RequireAuth(),
		middleware.RequireAdmin([]string{"studio@atelier.studio"}),
	)
	admin.Post("/provision-client", h.ProvisionClient)
	admin.Post("/invite", h.Invite)
	return app, db
}

func provisionBody() []byte {
	b, _ := json.Marshal(map[string]string{
		"email":        "client@acme.com",
		"client_name":  "Jordan Acme",
		"company_name": "Acme Corp",
		"project_name": "Acme Relaunch",
		"budget":       "100000",
	})
	return b
}

func TestProvisionClient_Unauthenticated(t *testing.T) {
	app, db := setupAdminApp(t, nil)

	req := httptest.NewRequest("POST", "/api/v1/admin/provision-client", bytes.NewReader(provisionBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.Zero(t, count)
}

// A logged-in user whose email is not on the admin allowlist gets 401 and no
// rows are created — even with role=admin in the session.
func TestProvisionClient_NotAllowlisted(t *testing.T) {
	app, db := setupAdminApp(t, map[string]interface{}{
		"user_id": uuid.New().String(),
		"email":   "intruder@example.com",
		"role":    models.RoleAdmin,
	})

	req := httptest.NewRequest("POST", "/api/v1/admin/provision-client", bytes.NewReader(provisionBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProvisionClient_AllowlistedAdmin(t *testing.T) {
	app, db := setupAdminApp(t, map[string]interface{}{
		"user_id": uuid.New().String(),
		"email":   "studio@atelier.studio",
		"role":    models.RoleAdmin,
	})

	req := httptest.NewRequest("POST", "/api/v1/admin/provision-client", bytes.NewReader(provisionBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Service{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestProvisionClient_InvalidBudget(t *testing.T) {
	app, db := setupAdminApp(t, map[string]interface{}{
		"user_id": uuid.New().String(),
		"email":   "studio@atelier.studio",
		"role":    models.RoleAdmin,
	})

	for _, budget := range []string{"", "abc", "-5", "0", "NaN"} {
		b, _ := json.Marshal(map[string]string{
			"email":        "client@acme.com",
			"client_name":  "Jordan Acme",
			"company_name": "Acme Corp",
			"project_name": "Acme Relaunch",
			"budget":       budget,
		})
		req := httptest.NewRequest("POST", "/api/v1/admin/provision-client", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "budget %q", budget)
	}

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInvite_MissingEmail(t *testing.T) {
	app, _ := setupAdminApp(t, map[string]interface{}{
		"user_id": uuid.New().String(),
		"email":   "studio@atelier.studio",
		"role":    models.RoleAdmin,
	})

	b, _ := json.Marshal(map[string]string{"client_name": "Jordan"})
	req := httptest.NewRequest("POST", "/api/v1/admin/invite", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
