package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/helmsman/pkg/backend"
)

// BackendAliases manages backend-id alias resolution, so callers and config
// can say "best" or "cheap" instead of a dated model id.
type BackendAliases struct {
	Aliases map[string]string `yaml:"aliases"`
}

// DefaultAliases maps the conventional tier names onto the builtin set.
func DefaultAliases() *BackendAliases {
	return &BackendAliases{
		Aliases: map[string]string{
			"best":  "claude-opus-4-20250514",
			"code":  "claude-sonnet-4-20250514",
			"fast":  "gpt-5.2-instant",
			"cheap": "gpt-5.2-instant",
		},
	}
}

// LoadAliases reads backend aliases from a YAML file.
func LoadAliases(path string) (*BackendAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var aliases BackendAliases
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, err
	}
	if aliases.Aliases == nil {
		aliases.Aliases = make(map[string]string)
	}
	return &aliases, nil
}

// LoadAliasesWithFallback loads aliases from the user config dir, falling
// back to the defaults when no file exists.
func LoadAliasesWithFallback(configDir string) *BackendAliases {
	path := filepath.Join(configDir, "aliases.yaml")
	if aliases, err := LoadAliases(path); err == nil {
		return aliases
	}
	return DefaultAliases()
}

// Resolve returns the canonical backend id for an alias. If the input is not
// an alias, it returns the input unchanged.
func (a *BackendAliases) Resolve(idOrAlias string) string {
	if a == nil || a.Aliases == nil {
		return idOrAlias
	}
	if canonical, ok := a.Aliases[idOrAlias]; ok {
		return canonical
	}
	return idOrAlias
}

// IsAlias returns true if the given string is a known alias.
func (a *BackendAliases) IsAlias(name string) bool {
	if a == nil || a.Aliases == nil {
		return false
	}
	_, ok := a.Aliases[name]
	return ok
}

// List returns alias names in sorted order.
func (a *BackendAliases) List() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.Aliases))
	for name := range a.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every alias points at a registered backend.
func (a *BackendAliases) Validate(registry *backend.Registry) []error {
	if a == nil || registry == nil {
		return nil
	}

	var errs []error
	for _, name := range a.List() {
		target := a.Aliases[name]
		if !registry.Has(target) {
			errs = append(errs, fmt.Errorf("alias %q points at unregistered backend %q", name, target))
		}
	}
	return errs
}
