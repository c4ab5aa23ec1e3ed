package backend

import (
	"fmt"
	"sync"
)

// Registry holds the candidate backends. It preserves insertion order, which
// the selector relies on for deterministic tie-breaking. Reads take a shared
// lock; scoring works from Snapshot copies so in-flight decisions never
// observe a half-applied update.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	profiles map[string]Profile
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]Profile)}
}

// Add registers a profile. IDs must be unique; performance scores are clamped
// to [0,100].
func (r *Registry) Add(p Profile) error {
	if p.ID == "" {
		return fmt.Errorf("backend id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[p.ID]; exists {
		return fmt.Errorf("backend %q already registered", p.ID)
	}

	p.PerformanceScore = clamp(p.PerformanceScore, 0, 100)
	r.order = append(r.order, p.ID)
	r.profiles[p.ID] = p
	return nil
}

// Get returns the profile for an id.
func (r *Registry) Get(id string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	return p, ok
}

// Has reports whether an id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.profiles[id]
	return ok
}

// Len returns the number of registered backends.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Snapshot returns the profiles in registration order. The slice and its
// elements are copies; callers may hold them without locking.
func (r *Registry) Snapshot() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id])
	}
	return out
}

// SetPerformance updates a backend's learned performance score, clamped to
// [0,100]. Only the tuner and discovery paths call this; the scorer never
// writes scores.
func (r *Registry) SetPerformance(id string, score float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return false
	}
	p.PerformanceScore = clamp(score, 0, 100)
	r.profiles[id] = p
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
