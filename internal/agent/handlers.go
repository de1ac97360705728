package agent

import (
	"bufio"
	"strings"

	"atelier-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Completer Completer
}

// Chat POST /api/v1/chat — {messages, system?} → streamed text.
func (h *Handlers) Chat(c *fiber.Ctx) error {
	var body struct {
		Messages []Message `json:"messages"`
		System   string    `json:"system"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Messages) == 0 {
		return response.Error(c, "messages are required", fiber.StatusBadRequest, nil)
	}
	return h.stream(c, body.System, body.Messages)
}

// Completion POST /api/v1/completion — {prompt, system?} → streamed text.
func (h *Handlers) Completion(c *fiber.Ctx) error {
	var body struct {
		Prompt string `json:"prompt"`
		System string `json:"system"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.Prompt) == "" {
		return response.Error(c, "prompt is required", fiber.StatusBadRequest, nil)
	}
	return h.stream(c, body.System, []Message{{Role: "user", Content: body.Prompt}})
}

// Agent POST /api/v1/agent/:type — canned system instruction per agent type.
func (h *Handlers) Agent(c *fiber.Ctx) error {
	system, ok := SystemFor(c.Params("type"))
	if !ok {
		return response.Error(c, "unknown agent type", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.Prompt) == "" {
		return response.Error(c, "prompt is required", fiber.StatusBadRequest, nil)
	}
	return h.stream(c, system, []Message{{Role: "user", Content: body.Prompt}})
}

// stream pipes completion chunks to the response as they arrive. One
// outstanding stream per request; the fasthttp request context is cancelled
// when the client disconnects, which stops the model stream.
func (h *Handlers) stream(c *fiber.Ctx, system string, messages []Message) error {
	if h.Completer == nil {
		return response.Error(c, "Completion service not configured", fiber.StatusServiceUnavailable, nil)
	}

	ctx := c.Context()
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set("X-Accel-Buffering", "no")

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		err := h.Completer.StreamCompletion(ctx, system, messages, func(chunk string) error {
			if _, err := w.WriteString(chunk); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			// Headers are gone; all we can do is log and cut the stream.
			log.Error().Err(err).Msg("completion stream failed")
		}
	})
	return nil
}
