package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zen-systems/helmsman/pkg/backend"
	"github.com/zen-systems/helmsman/pkg/logging"
)

func writeBackendsFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "backends.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildRegistry_NoOverrideFile(t *testing.T) {
	cfg := &Config{ConfigDir: t.TempDir()}
	registry := cfg.BuildRegistry(logging.Discard())

	if registry.Len() != 3 {
		t.Fatalf("registry holds %d backends, want 3 builtins", registry.Len())
	}
	if !registry.Has("claude-opus-4-20250514") {
		t.Error("builtin opus missing")
	}
}

func TestBuildRegistry_OverrideFile(t *testing.T) {
	dir := t.TempDir()
	writeBackendsFile(t, dir, `backends:
  - id: local-llama
    max_context_units: 8000
    unit_cost:
      input: 0
      output: 0
    expected_latency_ms: 1500
    capability_tags: [code, general]
    performance_score: 60
`)

	cfg := &Config{ConfigDir: dir}
	registry := cfg.BuildRegistry(logging.Discard())

	if registry.Len() != 1 {
		t.Fatalf("registry holds %d backends, want the 1 override", registry.Len())
	}
	p, ok := registry.Get("local-llama")
	if !ok {
		t.Fatal("override backend missing")
	}
	if p.Origin != backend.OriginBuiltin {
		t.Errorf("Origin = %q, want defaulted to %q", p.Origin, backend.OriginBuiltin)
	}
	if !p.HasTag("code") {
		t.Error("override tags not loaded")
	}
}

func TestBuildRegistry_SkipsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	writeBackendsFile(t, dir, `backends:
  - id: ""
    performance_score: 50
  - id: good-model
    performance_score: 70
`)

	cfg := &Config{ConfigDir: dir}
	registry := cfg.BuildRegistry(logging.Discard())

	if registry.Len() != 1 {
		t.Fatalf("registry holds %d backends, want 1 valid entry", registry.Len())
	}
	if !registry.Has("good-model") {
		t.Error("valid entry missing")
	}
}

func TestBuildRegistry_MalformedFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeBackendsFile(t, dir, "backends: [not: {valid")

	cfg := &Config{ConfigDir: dir}
	registry := cfg.BuildRegistry(logging.Discard())

	if registry.Len() != 3 {
		t.Fatalf("registry holds %d backends, want 3 builtins on parse failure", registry.Len())
	}
}

func TestBuildRegistry_AllEntriesInvalidFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeBackendsFile(t, dir, `backends:
  - id: ""
`)

	cfg := &Config{ConfigDir: dir}
	registry := cfg.BuildRegistry(logging.Discard())

	if registry.Len() != 3 {
		t.Fatalf("registry holds %d backends, want builtins when no override is usable", registry.Len())
	}
}

func TestApplyRouterDefaults(t *testing.T) {
	r := RouterSettings{}
	applyRouterDefaults(&r)
	if r.BatchSize != 100 {
		t.Errorf("BatchSize = %d, want 100", r.BatchSize)
	}
	if r.ListenAddr != "127.0.0.1:8676" {
		t.Errorf("ListenAddr = %q", r.ListenAddr)
	}

	r = RouterSettings{BatchSize: 25, ListenAddr: "0.0.0.0:9000"}
	applyRouterDefaults(&r)
	if r.BatchSize != 25 || r.ListenAddr != "0.0.0.0:9000" {
		t.Errorf("explicit settings overwritten: %+v", r)
	}
}
