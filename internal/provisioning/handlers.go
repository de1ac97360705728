package provisioning

import (
	"strings"

	"atelier-backend/internal/pkg/response"
	"atelier-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// ProvisionRequest is the admin form payload. Budget arrives as a string
// because the admin UI posts form values; ParseBudget rejects anything that
// is not a positive number.
type ProvisionRequest struct {
	Email       string `json:"email"`
	ClientName  string `json:"client_name"`
	CompanyName string `json:"company_name"`
	ProjectName string `json:"project_name"`
	Budget      string `json:"budget"`
}

// ProvisionClient POST /api/v1/admin/provision-client (admin allowlist via middleware)
func (h *Handlers) ProvisionClient(c *fiber.Ctx) error {
	var body ProvisionRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	body.Email = strings.TrimSpace(body.Email)
	body.ClientName = strings.TrimSpace(body.ClientName)
	body.CompanyName = strings.TrimSpace(body.CompanyName)
	body.ProjectName = strings.TrimSpace(body.ProjectName)

	if !validation.IsValidEmail(body.Email) {
		return response.Error(c, "A valid email is required", fiber.StatusBadRequest, nil)
	}
	if body.ClientName == "" || body.CompanyName == "" || body.ProjectName == "" {
		return response.Error(c, "client_name, company_name and project_name are required", fiber.StatusBadRequest, nil)
	}
	budget, ok := validation.ParseBudget(body.Budget)
	if !ok {
		return response.Error(c, "budget must be a positive number", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.ProvisionClient(c.Context(), ProvisionInput{
		Email:       body.Email,
		ClientName:  body.ClientName,
		CompanyName: body.CompanyName,
		ProjectName: body.ProjectName,
		Budget:      budget,
	})
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, result.Message, result, nil)
}

// Invite POST /api/v1/admin/invite (admin allowlist via middleware)
func (h *Handlers) Invite(c *fiber.Ctx) error {
	var body struct {
		Email      string `json:"email"`
		ClientName string `json:"client_name"`
	}
	if err := c.BodyParser(&body); err != nil || !validation.IsValidEmail(strings.TrimSpace(body.Email)) {
		return response.Error(c, "A valid email is required", fiber.StatusBadRequest, nil)
	}

	userID, err := h.Service.InviteOnly(c.Context(), strings.TrimSpace(body.Email), strings.TrimSpace(body.ClientName))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Invitation sent successfully", fiber.Map{"user_id": userID}, nil)
}
