package adapter

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicCatalog lists Claude models from the Anthropic API.
type AnthropicCatalog struct {
	client anthropic.Client
}

// NewAnthropicCatalog creates a catalog client. The SDK reads
// ANTHROPIC_API_KEY from the environment.
func NewAnthropicCatalog(apiKey string) (*AnthropicCatalog, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient()
	return &AnthropicCatalog{client: client}, nil
}

// Name returns the provider identifier.
func (c *AnthropicCatalog) Name() string {
	return "anthropic"
}

// ListModels queries the Anthropic model catalog.
func (c *AnthropicCatalog) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo

	iter := c.client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})
	for iter.Next() {
		m := iter.Current()
		models = append(models, ModelInfo{
			ID:       m.ID,
			Released: m.CreatedAt,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	return models, nil
}
