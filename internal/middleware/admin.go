package middleware

import (
	"strings"

	"atelier-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin restricts a route to the configured admin allowlist
// (ADMIN_EMAILS). The allowlist is the single policy point for admin access:
// a profile with role=admin whose email is not listed is still refused.
// Non-allowlisted callers get 401, matching the behavior admin consumers
// already depend on.
func RequireAdmin(allowlist []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, e := range allowlist {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if _, ok := allowed[strings.ToLower(actor.Email)]; !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}
