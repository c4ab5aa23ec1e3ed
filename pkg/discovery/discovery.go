// Package discovery refreshes the capability registry from provider model
// catalogs. It is purely additive: unseen models are registered with
// conservative defaults, existing entries are never edited or removed.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zen-systems/helmsman/pkg/adapter"
	"github.com/zen-systems/helmsman/pkg/backend"
)

// Conservative defaults applied to discovered backends until the tuner has
// learned anything about them.
const (
	defaultPerformanceScore = 75
	defaultMaxContextUnits  = 32000
	defaultLatencyMs        = 3000
	defaultInputUnitCost    = 0.005
	defaultOutputUnitCost   = 0.015
)

// DefaultPrefixes is the naming convention filter applied to catalog entries.
var DefaultPrefixes = []string{"gpt-", "o3", "o4", "claude-", "gemini-", "deepseek-"}

// Discoverer adds catalog models to the registry.
type Discoverer struct {
	registry *backend.Registry
	catalogs []adapter.Catalog
	prefixes []string
	logger   *slog.Logger
}

// New creates a discoverer. A nil or empty prefix list falls back to
// DefaultPrefixes.
func New(registry *backend.Registry, catalogs []adapter.Catalog, prefixes []string, logger *slog.Logger) *Discoverer {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{
		registry: registry,
		catalogs: catalogs,
		prefixes: prefixes,
		logger:   logger,
	}
}

// Run queries every catalog and registers unseen models that match the
// naming convention. A catalog that cannot be reached is logged and skipped;
// the registry is left unchanged for it. Run fails only when every catalog
// failed, and even that is safe for callers to ignore.
func (d *Discoverer) Run(ctx context.Context) error {
	if len(d.catalogs) == 0 {
		d.logger.Debug("no catalogs configured; discovery is a no-op")
		return nil
	}

	var failures int
	for _, catalog := range d.catalogs {
		models, err := catalog.ListModels(ctx)
		if err != nil {
			failures++
			if adapter.IsTransient(err) {
				d.logger.Info("catalog unavailable, will retry on next run", "provider", catalog.Name(), "error", err)
			} else {
				d.logger.Warn("catalog listing failed", "provider", catalog.Name(), "error", err)
			}
			continue
		}

		added := 0
		for _, m := range models {
			if !d.matchesConvention(m.ID) || d.registry.Has(m.ID) {
				continue
			}
			if err := d.registry.Add(d.profileFor(m)); err != nil {
				d.logger.Warn("failed to register discovered backend", "id", m.ID, "error", err)
				continue
			}
			added++
		}
		d.logger.Info("catalog refresh complete", "provider", catalog.Name(), "listed", len(models), "added", added)
	}

	if failures == len(d.catalogs) {
		return fmt.Errorf("all %d catalogs failed", failures)
	}
	return nil
}

func (d *Discoverer) matchesConvention(id string) bool {
	for _, prefix := range d.prefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

func (d *Discoverer) profileFor(m adapter.ModelInfo) backend.Profile {
	return backend.Profile{
		ID:                m.ID,
		MaxContextUnits:   defaultMaxContextUnits,
		UnitCost:          backend.UnitCost{Input: defaultInputUnitCost, Output: defaultOutputUnitCost},
		ExpectedLatencyMs: defaultLatencyMs,
		CapabilityTags:    []string{backend.TagGeneral},
		ReleaseTimestamp:  m.Released,
		PerformanceScore:  defaultPerformanceScore,
		Origin:            backend.OriginDiscovered,
	}
}
