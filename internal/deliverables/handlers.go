package deliverables

import (
	"strings"

	"atelier-backend/internal/middleware"
	"atelier-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Approve POST /api/v1/deliverables/approve (auth via middleware)
func (h *Handlers) Approve(c *fiber.Ctx) error {
	var body struct {
		DeliverableID string `json:"deliverable_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.DeliverableID == "" {
		return response.Error(c, "deliverable_id is required", fiber.StatusBadRequest, nil)
	}
	deliverableID, err := uuid.Parse(body.DeliverableID)
	if err != nil {
		return response.Error(c, "deliverable_id must be a valid id", fiber.StatusBadRequest, nil)
	}
	if middleware.GetActor(c) == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	d, err := h.Service.Approve(c.Context(), deliverableID)
	if err != nil {
		if err == ErrDeliverableNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Deliverable approved", d, nil)
}

// RequestChanges POST /api/v1/deliverables/request-changes (auth via middleware)
func (h *Handlers) RequestChanges(c *fiber.Ctx) error {
	var body struct {
		ProjectID     string `json:"project_id"`
		DeliverableID string `json:"deliverable_id"`
		Title         string `json:"title"`
		Description   string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	body.Title = strings.TrimSpace(body.Title)
	body.Description = strings.TrimSpace(body.Description)
	if body.Title == "" || body.Description == "" {
		return response.Error(c, "title and description are required", fiber.StatusBadRequest, nil)
	}
	projectID, err := uuid.Parse(body.ProjectID)
	if err != nil {
		return response.Error(c, "project_id must be a valid id", fiber.StatusBadRequest, nil)
	}
	deliverableID, err := uuid.Parse(body.DeliverableID)
	if err != nil {
		return response.Error(c, "deliverable_id must be a valid id", fiber.StatusBadRequest, nil)
	}
	if middleware.GetActor(c) == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	ticket, err := h.Service.RequestChanges(c.Context(), RequestChangesInput{
		ProjectID:     projectID,
		DeliverableID: deliverableID,
		Title:         body.Title,
		Description:   body.Description,
	})
	if err != nil {
		if err == ErrDeliverableNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Change request created", ticket, nil)
}
