package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
)

// OpenAICatalog lists models from the OpenAI API.
type OpenAICatalog struct {
	client openai.Client
}

// NewOpenAICatalog creates a catalog client. The SDK reads OPENAI_API_KEY
// from the environment.
func NewOpenAICatalog(apiKey string) (*OpenAICatalog, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient()
	return &OpenAICatalog{client: client}, nil
}

// Name returns the provider identifier.
func (c *OpenAICatalog) Name() string {
	return "openai"
}

// ListModels queries the OpenAI model catalog.
func (c *OpenAICatalog) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo

	iter := c.client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		m := iter.Current()
		models = append(models, ModelInfo{
			ID:       m.ID,
			Released: time.Unix(m.Created, 0).UTC(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	return models, nil
}
