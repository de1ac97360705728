package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer streams a text completion chunk by chunk. The real implementation
// talks to Gemini; tests use a double that emits fixed chunks.
type Completer interface {
	StreamCompletion(ctx context.Context, system string, messages []Message, onChunk func(string) error) error
}

// GenAIClient is a Completer backed by the Gemini API.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a Gemini-backed completer.
func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("agent: GEMINI_API_KEY is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("agent: create client: %w", err)
	}
	return &GenAIClient{client: client, model: model}, nil
}

// StreamCompletion issues one streamed generation. Cancellation of ctx (e.g.
// the HTTP client disconnecting) stops the stream.
func (g *GenAIClient) StreamCompletion(ctx context.Context, system string, messages []Message, onChunk func(string) error) error {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" || m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, cfg) {
		if err != nil {
			return err
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		if err := onChunk(text); err != nil {
			return err
		}
	}
	return nil
}
