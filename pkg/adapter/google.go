package adapter

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GoogleCatalog lists Gemini models from the Google GenAI API.
type GoogleCatalog struct {
	client *genai.Client
}

// NewGoogleCatalog creates a catalog client.
func NewGoogleCatalog(apiKey string) (*GoogleCatalog, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleCatalog{client: client}, nil
}

// Name returns the provider identifier.
func (c *GoogleCatalog) Name() string {
	return "google"
}

// ListModels queries the Gemini model catalog. Catalog names arrive as
// "models/<id>"; the prefix is stripped.
func (c *GoogleCatalog) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo

	for m, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("google API error: %w", err)
		}
		if m == nil || m.Name == "" {
			continue
		}
		models = append(models, ModelInfo{
			ID: strings.TrimPrefix(m.Name, "models/"),
		})
	}

	return models, nil
}
