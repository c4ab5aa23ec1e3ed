// Package router selects the backend model best suited to a request and
// retunes its own selection weights from recorded outcomes.
package router

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zen-systems/helmsman/pkg/backend"
	"github.com/zen-systems/helmsman/pkg/metrics"
	"github.com/zen-systems/helmsman/pkg/task"
	"github.com/zen-systems/helmsman/pkg/tuner"
	"github.com/zen-systems/helmsman/pkg/weights"
)

// Discoverer refreshes the registry from upstream catalogs.
type Discoverer interface {
	Run(ctx context.Context) error
}

// Router is the process-wide routing facade: analyzer in front, scorer and
// selector in the middle, recorder and tuner behind. Weights and registry are
// read-mostly; updates install atomically so in-flight decisions never block.
type Router struct {
	registry *backend.Registry
	weights  *weights.Store
	recorder *metrics.Recorder
	tuner    *tuner.Tuner
	disco    Discoverer
	logger   *slog.Logger

	// retuneMu serializes tuner runs: a run in progress suppresses a new
	// trigger rather than queueing behind it.
	retuneMu sync.Mutex
}

// Option configures a Router.
type Option func(*Router)

// WithDiscoverer wires the catalog discoverer used by Discover.
func WithDiscoverer(d Discoverer) Option {
	return func(r *Router) { r.disco = d }
}

// WithLogger sets the router's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// WithMinRetuneSamples overrides the outcome count required before a retune
// recomputes weights. Zero or negative keeps the tuner default.
func WithMinRetuneSamples(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.tuner.MinSamples = n
		}
	}
}

// New creates a router over the given registry, weights store, and recorder.
// The recorder's batch boundary triggers background retunes.
func New(registry *backend.Registry, store *weights.Store, recorder *metrics.Recorder, opts ...Option) *Router {
	r := &Router{
		registry: registry,
		weights:  store,
		recorder: recorder,
		tuner:    tuner.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	recorder.SetOnBatch(func() {
		if err := r.Retune(); err != nil {
			r.logger.Warn("background retune failed", "error", err)
		}
	})

	return r
}

// SelectBackend analyzes the message and picks the best backend id. It fails
// only when the registry is empty.
func (r *Router) SelectBackend(message string, history []task.Turn, prefs task.Preferences) (string, error) {
	_, id, err := r.selectWithProfile(message, history, prefs)
	return id, err
}

// Decide is SelectBackend plus the derived task profile, for callers that
// want to expose the routing rationale.
func (r *Router) Decide(message string, history []task.Turn, prefs task.Preferences) (task.Profile, string, error) {
	return r.selectWithProfile(message, history, prefs)
}

func (r *Router) selectWithProfile(message string, history []task.Turn, prefs task.Preferences) (task.Profile, string, error) {
	w := r.weights.Current()
	profile := task.Analyze(message, history, prefs, w.HighComplexityThreshold)

	backends := r.registry.Snapshot()
	order := make([]string, len(backends))
	for i, b := range backends {
		order[i] = b.ID
	}

	scores := Score(profile, backends, w)
	id, err := Select(scores, order)
	if err != nil {
		return profile, "", err
	}

	r.logger.Debug("routing decision",
		"backend", id,
		"task_type", profile.TaskType,
		"domain", profile.Domain,
		"complexity", profile.Complexity,
		"context_units", profile.ContextUnits)
	return profile, id, nil
}

// RecordOutcome appends one completed request's result. It never fails; a
// batch boundary kicks off a background retune.
func (r *Router) RecordOutcome(o metrics.Outcome) {
	r.recorder.Record(o)
}

// Stats returns the aggregated outcome statistics together with the weights
// currently in force.
func (r *Router) Stats() StatsReport {
	return StatsReport{
		Stats:          r.recorder.Stats(),
		CurrentWeights: r.weights.Current(),
	}
}

// StatsReport is the dashboard view of the router's state.
type StatsReport struct {
	metrics.Stats
	CurrentWeights weights.Weights `json:"current_weights"`
}

// Weights returns the weights currently in force.
func (r *Router) Weights() weights.Weights {
	return r.weights.Current()
}

// Registry exposes the capability registry.
func (r *Router) Registry() *backend.Registry {
	return r.registry
}

// Retune recomputes weights from the full outcome log and installs the
// result. At most one run executes at a time; a concurrent trigger returns
// immediately. Weight and score persistence failures are logged, not
// propagated to request paths.
func (r *Router) Retune() error {
	if !r.retuneMu.TryLock() {
		return nil
	}
	defer r.retuneMu.Unlock()

	outcomes := r.recorder.ReadAll()
	backends := r.registry.Snapshot()

	current := r.weights.Current()
	next := r.tuner.Retune(current, outcomes, backends)
	if next != current {
		if err := r.weights.Swap(next); err != nil {
			r.logger.Warn("failed to persist retuned weights", "error", err)
		} else {
			r.logger.Info("routing weights retuned",
				"high_threshold", next.HighComplexityThreshold,
				"cost_weight", next.CostWeight,
				"latency_weight", next.LatencyWeight,
				"samples", len(outcomes))
		}
	}

	for id, score := range r.tuner.PerformanceUpdates(outcomes, backends) {
		r.registry.SetPerformance(id, score)
	}
	return nil
}

// Discover refreshes the registry from the configured provider catalogs.
// Upstream failures are non-fatal: the registry is left unchanged for the
// catalogs that could not be reached.
func (r *Router) Discover(ctx context.Context) error {
	if r.disco == nil {
		r.logger.Debug("no discoverer configured; skipping discovery")
		return nil
	}
	return r.disco.Run(ctx)
}
