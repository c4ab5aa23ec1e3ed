package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// DeepSeekCatalog lists models from the DeepSeek API, which uses the
// OpenAI-compatible wire format.
type DeepSeekCatalog struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// deepseekModelList is the OpenAI-compatible /models response.
type deepseekModelList struct {
	Object string `json:"object"`
	Data   []struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		Created int64  `json:"created"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewDeepSeekCatalog creates a catalog client.
func NewDeepSeekCatalog(apiKey string) (*DeepSeekCatalog, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepseek API key is required")
	}

	return &DeepSeekCatalog{
		apiKey:     apiKey,
		baseURL:    deepseekBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name returns the provider identifier.
func (c *DeepSeekCatalog) Name() string {
	return "deepseek"
}

// ListModels queries the DeepSeek model catalog.
func (c *DeepSeekCatalog) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepseek API error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var list deepseekModelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if list.Error != nil {
		return nil, &AdapterError{Status: resp.StatusCode, Err: fmt.Errorf("deepseek: %s", list.Error.Message)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &AdapterError{Status: resp.StatusCode, Err: fmt.Errorf("deepseek returned status %d", resp.StatusCode)}
	}

	models := make([]ModelInfo, 0, len(list.Data))
	for _, m := range list.Data {
		info := ModelInfo{ID: m.ID}
		if m.Created > 0 {
			info.Released = time.Unix(m.Created, 0).UTC()
		}
		models = append(models, info)
	}
	return models, nil
}
