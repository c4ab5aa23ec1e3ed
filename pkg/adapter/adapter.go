// Package adapter wraps the LLM provider SDKs behind a uniform model-catalog
// interface. The router never invokes backends; adapters exist so discovery
// can enumerate what each provider currently offers.
package adapter

import (
	"context"
	"time"
)

// Catalog lists the models a provider currently serves.
type Catalog interface {
	// Name returns the provider identifier.
	Name() string

	// ListModels queries the provider's model catalog.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ModelInfo is one catalog entry.
type ModelInfo struct {
	ID       string
	Released time.Time
}
