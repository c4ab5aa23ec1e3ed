package weights

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_DefaultsWhenAbsent(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	if got := s.Current(); got != Default() {
		t.Errorf("current = %+v, want defaults", got)
	}
}

func TestStore_SwapPersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)

	w := Default()
	w.HighComplexityThreshold = 70
	w.CostWeight = 0.2
	if err := s.Swap(w); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if got := s.Current(); got != w {
		t.Errorf("current = %+v, want %+v", got, w)
	}

	reloaded := NewStore(dir, nil)
	if got := reloaded.Current(); got != w {
		t.Errorf("reloaded = %+v, want %+v", got, w)
	}
}

func TestStore_RejectsInvalidWeights(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	bad := Default()
	bad.MidComplexityThreshold = 90 // above the high threshold
	if err := s.Swap(bad); err == nil {
		t.Fatal("expected invalid weights to be rejected")
	}
	if got := s.Current(); got != Default() {
		t.Errorf("rejected swap changed current weights: %+v", got)
	}

	negative := Default()
	negative.CostWeight = -0.1
	if err := s.Swap(negative); err == nil {
		t.Fatal("expected negative weight to be rejected")
	}
}

func TestStore_CorruptDocumentFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir, nil)
	if got := s.Current(); got != Default() {
		t.Errorf("current = %+v, want defaults after corrupt load", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default weights invalid: %v", err)
	}

	w := Default()
	w.MidComplexityThreshold = w.HighComplexityThreshold
	if err := w.Validate(); err == nil {
		t.Error("equal thresholds should be invalid")
	}
}
