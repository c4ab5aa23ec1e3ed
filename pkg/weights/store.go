package weights

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
)

const fileName = "weights.json"

// Store owns the current weights snapshot and its durable copy. The on-disk
// document is overwritten whole on each save and is the sole source of truth
// across restarts; when absent the built-in defaults apply.
type Store struct {
	path    string
	current atomic.Pointer[Weights]
	logger  *slog.Logger
}

// NewStore loads weights from dataDir, falling back to defaults when the
// document is missing or unreadable. Load failures are non-fatal.
func NewStore(dataDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:   filepath.Join(dataDir, fileName),
		logger: logger,
	}

	w := Default()
	if loaded, err := load(s.path); err == nil {
		w = loaded
	} else if !os.IsNotExist(err) {
		logger.Warn("using default weights", "path", s.path, "error", err)
	}
	s.current.Store(&w)
	return s
}

// Current returns the active weights snapshot.
func (s *Store) Current() Weights {
	return *s.current.Load()
}

// Swap installs new weights atomically and persists them. Invalid weights are
// rejected; persistence failure keeps the in-memory update and is reported to
// the caller for logging only.
func (s *Store) Swap(w Weights) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("rejecting weights: %w", err)
	}
	s.current.Store(&w)
	return s.persist(w)
}

func (s *Store) persist(w Weights) error {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	// Write-then-rename so readers on restart never see a torn document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func load(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, err
	}

	var w Weights
	if err := json.Unmarshal(data, &w); err != nil {
		return Weights{}, err
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
