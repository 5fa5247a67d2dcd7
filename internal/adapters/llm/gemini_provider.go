package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"google.golang.org/genai"
)

// GeminiProvider implements portssvc.GenerativeModel on top of the Gen AI SDK.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

var _ portssvc.GenerativeModel = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini API client. With an empty apiKey the SDK falls
// back to its environment variables (GOOGLE_API_KEY, GOOGLE_GENAI_USE_VERTEXAI, ...).
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if modelName == "" {
		return nil, errors.New("gemini model name cannot be empty")
	}
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	}
	if apiKey != "" {
		cc.APIKey = apiKey
		cc.Backend = genai.BackendGeminiAPI
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

// Generate sends a single-turn prompt and returns the concatenated text parts.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxTokens,
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", p.modelName, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("generate content with %s: empty response from model", p.modelName)
	}
	return text, nil
}

// DisabledProvider stands in when no model credentials are configured, so every
// categorization falls back to Pass 1 or manual review.
type DisabledProvider struct{}

var _ portssvc.GenerativeModel = DisabledProvider{}

func (DisabledProvider) Generate(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	return "", portssvc.ErrModelNotConfigured
}
