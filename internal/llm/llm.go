package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrNoAPIKey is returned when a GenAI client is built without credentials.
var ErrNoAPIKey = errors.New("llm: api key is required")

// Request is one completion call.
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int32
}

// Completer is the external text-generation service.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// GenAIClient implements Completer on the Gemini API.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a Gemini-backed completer.
func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIClient{client: client, model: model}, nil
}

// Complete sends the prompt and returns the raw response text.
func (c *GenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.User), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("generate content: empty response")
	}
	return text, nil
}

// Func adapts a function to Completer.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Complete(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

// Unavailable is the completer used when no provider is configured.
type Unavailable struct{}

func (Unavailable) Complete(context.Context, Request) (string, error) {
	return "", errors.New("llm: no provider configured")
}
