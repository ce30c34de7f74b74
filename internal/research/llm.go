package research

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// LLM generates research text from a prompt. Implementations must be
// safe for concurrent use.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const systemInstruction = "You are an investigative analyst specializing in cryptocurrency and blockchain projects. Answer in concise Markdown."

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

var _ LLM = (*GeminiClient)(nil)

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
