package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/helmsman/pkg/backend"
)

// BackendsFile represents the structure of backends.yaml, an optional
// override for the built-in backend set.
type BackendsFile struct {
	Backends []backend.Profile `yaml:"backends"`
}

// LoadBackends reads a backend override file.
func LoadBackends(path string) ([]backend.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file BackendsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return file.Backends, nil
}

// BuildRegistry seeds a registry from backends.yaml in the config directory
// when present, falling back to the built-in set. Invalid entries are skipped
// with a log line rather than failing startup.
func (c *Config) BuildRegistry(logger *slog.Logger) *backend.Registry {
	if logger == nil {
		logger = slog.Default()
	}

	path := filepath.Join(c.ConfigDir, "backends.yaml")
	profiles, err := LoadBackends(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("ignoring backend overrides", "path", path, "error", err)
		}
		return backend.NewBuiltinRegistry()
	}
	if len(profiles) == 0 {
		return backend.NewBuiltinRegistry()
	}

	registry := backend.NewRegistry()
	for _, p := range profiles {
		if p.Origin == "" {
			p.Origin = backend.OriginBuiltin
		}
		if err := registry.Add(p); err != nil {
			logger.Warn("skipping backend override entry", "id", p.ID, "error", err)
		}
	}
	if registry.Len() == 0 {
		logger.Warn("backend overrides contained no usable entries; using builtins", "path", path)
		return backend.NewBuiltinRegistry()
	}
	return registry
}
