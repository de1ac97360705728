package audit

import (
	"net/url"
	"strings"

	"atelier-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// Run POST /api/v1/audit/run (public)
func (h *Handlers) Run(c *fiber.Ctx) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.URL) == "" {
		return response.Error(c, "url is required", fiber.StatusBadRequest, nil)
	}
	target := strings.TrimSpace(body.URL)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}
	if _, err := url.ParseRequestURI(target); err != nil {
		return response.Error(c, "url must be a valid address", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.Run(c.Context(), target)
	if err != nil {
		log.Error().Err(err).Str("url", target).Msg("audit run failed")
		return response.Error(c, "Audit failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Audit completed", result, nil)
}
