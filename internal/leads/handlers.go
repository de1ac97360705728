package leads

import (
	"strings"

	"atelier-backend/internal/pkg/response"
	"atelier-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Create POST /api/v1/leads (public)
// 200 on capture, 409 when the email was already captured, 500 on any remote failure.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Lang  string `json:"lang"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || !validation.IsValidEmail(strings.TrimSpace(body.Email)) {
		return response.Error(c, "name and a valid email are required", fiber.StatusBadRequest, nil)
	}

	lead, err := h.Service.CreateLead(c.Context(), CreateLeadInput{
		Name:     body.Name,
		Email:    body.Email,
		Language: body.Lang,
	})
	if err != nil {
		if err == ErrLeadExists {
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Lead captured", lead, nil)
}

// List GET /api/v1/admin/leads (admin allowlist via middleware)
func (h *Handlers) List(c *fiber.Ctx) error {
	leads, err := h.Service.ListLeads(c.Context())
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Leads fetched successfully", leads, nil)
}
