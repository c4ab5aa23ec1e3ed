package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zen-systems/helmsman/pkg/backend"
)

func TestDefaultAliases_ResolveAgainstBuiltins(t *testing.T) {
	aliases := DefaultAliases()
	registry := backend.NewBuiltinRegistry()

	if errs := aliases.Validate(registry); len(errs) != 0 {
		t.Fatalf("default aliases must all resolve: %v", errs)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"best", "claude-opus-4-20250514"},
		{"code", "claude-sonnet-4-20250514"},
		{"fast", "gpt-5.2-instant"},
		{"cheap", "gpt-5.2-instant"},
		{"claude-opus-4-20250514", "claude-opus-4-20250514"},
		{"unknown-thing", "unknown-thing"},
	}
	for _, tt := range tests {
		if got := aliases.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := "aliases:\n  mine: gpt-5.2-instant\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if !aliases.IsAlias("mine") {
		t.Error("IsAlias(mine) = false, want true")
	}
	if got := aliases.Resolve("mine"); got != "gpt-5.2-instant" {
		t.Errorf("Resolve(mine) = %q", got)
	}
	// File aliases replace the defaults entirely.
	if aliases.IsAlias("best") {
		t.Error("default alias leaked into file-loaded set")
	}
}

func TestLoadAliasesWithFallback_MissingFile(t *testing.T) {
	aliases := LoadAliasesWithFallback(t.TempDir())
	if !aliases.IsAlias("best") {
		t.Error("fallback must carry the default alias set")
	}
}

func TestValidate_ReportsDanglingAliases(t *testing.T) {
	aliases := &BackendAliases{Aliases: map[string]string{
		"fast": "gpt-5.2-instant",
		"gone": "model-that-was-removed",
	}}

	errs := aliases.Validate(backend.NewBuiltinRegistry())
	if len(errs) != 1 {
		t.Fatalf("got %d validation errors, want 1: %v", len(errs), errs)
	}
}

func TestList_Sorted(t *testing.T) {
	aliases := DefaultAliases()
	names := aliases.List()
	want := []string{"best", "cheap", "code", "fast"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("List = %v, want %v", names, want)
		}
	}
}
