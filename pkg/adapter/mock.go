package adapter

import (
	"context"
	"time"
)

// MockCatalog returns a fixed model list for local runs and tests.
type MockCatalog struct {
	name   string
	models []ModelInfo
	err    error
}

// NewMockCatalog creates a mock catalog with a default model set.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		name: "mock",
		models: []ModelInfo{
			{ID: "mock-1", Released: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// NewMockCatalogWithModels creates a mock catalog serving the given entries.
func NewMockCatalogWithModels(name string, models []ModelInfo) *MockCatalog {
	return &MockCatalog{name: name, models: models}
}

// NewFailingCatalog creates a mock catalog whose ListModels always fails.
func NewFailingCatalog(name string, err error) *MockCatalog {
	return &MockCatalog{name: name, err: err}
}

// Name returns the provider identifier.
func (c *MockCatalog) Name() string {
	return c.name
}

// ListModels returns the configured entries.
func (c *MockCatalog) ListModels(_ context.Context) ([]ModelInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := make([]ModelInfo, len(c.models))
	copy(out, c.models)
	return out, nil
}
