package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atelier-backend/internal/middleware"
	"atelier-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	h := &Handlers{
		ProfileFinder: &GormProfileFinder{DB: db},
		Rdb:           rdb,
		Config:        middleware.SessionConfig{},
	}

	app := fiber.New()
	app.Use(middleware.SessionWithClient(rdb))
	app.Post("/api/v1/auth/login", h.Login)
	app.Get("/api/v1/auth/me", h.Me)
	app.Delete("/api/v1/auth/logout", h.Logout)
	return app, db
}

func seedClient(t *testing.T, db *gorm.DB, password string) models.Profile {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	p := models.Profile{
		Email:        "client@acme.com",
		FullName:     "Jordan Acme",
		CompanyName:  "Acme Corp",
		Role:         models.RoleClient,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func login(t *testing.T, app *fiber.App, email, password string) *http.Response {
	b, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLogin_Success(t *testing.T) {
	app, db := setupAuthApp(t)
	seedClient(t, db, "S3cret!pass")

	resp := login(t, app, "client@acme.com", "S3cret!pass")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cookie string
	for _, sc := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(sc, "atelier.sid=") {
			cookie = sc
		}
	}
	assert.NotEmpty(t, cookie)
}

func TestLogin_WrongPassword(t *testing.T) {
	app, db := setupAuthApp(t)
	seedClient(t, db, "S3cret!pass")

	resp := login(t, app, "client@acme.com", "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// An invited client who has not set a password yet cannot log in.
func TestLogin_NoPasswordSet(t *testing.T) {
	app, db := setupAuthApp(t)
	p := models.Profile{Email: "fresh@acme.com", FullName: "Fresh Invite", Role: models.RoleClient}
	require.NoError(t, db.Create(&p).Error)

	resp := login(t, app, "fresh@acme.com", "anything")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMe_WithSession(t *testing.T) {
	app, db := setupAuthApp(t)
	seedClient(t, db, "S3cret!pass")

	resp := login(t, app, "client@acme.com", "S3cret!pass")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cookieVal string
	for _, c := range resp.Cookies() {
		if c.Name == "atelier.sid" {
			cookieVal = c.Value
		}
	}
	require.NotEmpty(t, cookieVal)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "atelier.sid", Value: cookieVal})
	meResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, meResp.StatusCode)

	var body struct {
		Data struct {
			User SessionUserShape `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&body))
	assert.Equal(t, "client@acme.com", body.Data.User.Email)
	assert.Equal(t, "Acme Corp", body.Data.User.CompanyName)
}

func TestMe_NoSession(t *testing.T) {
	app, _ := setupAuthApp(t)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
