// Package gemini implements ai.Client on top of Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/aanand-mishra/engineers-api/internal/ai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Config configures New.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint. Empty means Google's default.
	BaseURL string
}

// Client sends one GenerateContent request per Chat call.
type Client struct {
	client *genai.Client
	model  string
}

var _ ai.Client = (*Client)(nil)

// New creates a Gemini-backed chat client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Client{client: client, model: cfg.Model}, nil
}

// Chat sends prompt as a single user message and returns the model's text.
// Every failure, including an empty answer, wraps ai.ErrProvider.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %w", ai.ErrProvider, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: gemini returned an empty response", ai.ErrProvider)
	}
	return text, nil
}
