package dashboard

import (
	"atelier-backend/internal/middleware"
	"atelier-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GetDashboard GET /api/v1/dashboard?locale=xx (auth via middleware)
// A null data payload means the client has no active project yet; the front
// end renders its onboarding state and uses the echoed locale for routing.
func (h *Handlers) GetDashboard(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	locale := c.Query("locale", "en")

	data, err := h.Service.GetDashboardData(c.Context(), userID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if data == nil {
		return response.Success(c, "No active project", nil, fiber.Map{"locale": locale})
	}
	return response.Success(c, "Dashboard data fetched successfully", data, fiber.Map{"locale": locale})
}
