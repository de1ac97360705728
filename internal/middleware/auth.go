package middleware

import (
	"atelier-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Actor is the session user unpacked for handlers.
type Actor struct {
	UserID      string
	FullName    string
	Email       string
	Role        string
	CompanyName string
}

// GetActor returns the typed session user, or nil when not logged in.
func GetActor(c *fiber.Ctx) *Actor {
	u := GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil
	}
	fullName, _ := m["full_name"].(string)
	email, _ := m["email"].(string)
	role, _ := m["role"].(string)
	companyName, _ := m["company_name"].(string)
	return &Actor{
		UserID:      userID,
		FullName:    fullName,
		Email:       email,
		Role:        role,
		CompanyName: companyName,
	}
}
