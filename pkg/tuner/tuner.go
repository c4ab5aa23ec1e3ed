// Package tuner recomputes routing weights from accumulated outcome records.
package tuner

import (
	"sort"

	"github.com/zen-systems/helmsman/pkg/backend"
	"github.com/zen-systems/helmsman/pkg/metrics"
	"github.com/zen-systems/helmsman/pkg/weights"
)

const (
	// MinSamples is the outcome count below which Retune is a no-op.
	MinSamples = 50

	// minBackendSamples gates per-backend performance score updates.
	minBackendSamples = 5
)

// Tuner derives new routing weights from history. The specific coefficients
// below are the routing contract, not inferred tuning behaviour.
type Tuner struct {
	MinSamples int
}

// New returns a tuner with the default minimum sample count.
func New() *Tuner {
	return &Tuner{MinSamples: MinSamples}
}

type group struct {
	count        int
	successes    int
	totalLatency int64
	totalCost    float64
	qualitySum   float64
	qualityCount int
}

func (g group) avgLatency() float64 {
	if g.count == 0 {
		return 0
	}
	return float64(g.totalLatency) / float64(g.count)
}

func (g group) avgQuality() float64 {
	if g.qualityCount == 0 {
		return 0
	}
	return g.qualitySum / float64(g.qualityCount)
}

func (g group) successRate() float64 {
	if g.count == 0 {
		return 0
	}
	return float64(g.successes) / float64(g.count)
}

// Retune computes new weights from the accumulated outcomes. With fewer than
// MinSamples outcomes it returns current unchanged. The high and mid
// capability tiers are the two most expensive backends by output unit cost.
func (t *Tuner) Retune(current weights.Weights, outcomes []metrics.Outcome, backends []backend.Profile) weights.Weights {
	min := t.MinSamples
	if min <= 0 {
		min = MinSamples
	}
	if len(outcomes) < min {
		return current
	}

	groups := groupByBackend(outcomes)

	next := weights.Weights{
		MidComplexityThreshold: 45,
		SizeMultiplier:         1.2,
		QualityWeight:          0.4,
	}

	next.HighComplexityThreshold = 80
	highID, midID := capabilityTiers(backends)
	highQ := groups[highID].avgQuality()
	midQ := groups[midID].avgQuality()
	if midQ > 0 && highQ/midQ > 1.2 {
		// The top tier is clearly outperforming: route more traffic to it.
		next.HighComplexityThreshold = 70
	}

	next.CostWeight = 0.3
	if meanQuality(groups) > 0.8 {
		next.CostWeight = 0.2
	}

	next.LatencyWeight = 0.4
	if meanLatency(outcomes) < 2000 {
		next.LatencyWeight = 0.3
	}

	return next
}

// PerformanceUpdates returns new performance scores for backends with enough
// samples, blending the current score toward observed success rate and
// quality.
func (t *Tuner) PerformanceUpdates(outcomes []metrics.Outcome, backends []backend.Profile) map[string]float64 {
	groups := groupByBackend(outcomes)

	updates := make(map[string]float64)
	for _, b := range backends {
		g, ok := groups[b.ID]
		if !ok || g.count < minBackendSamples {
			continue
		}
		observed := g.successRate()*60 + g.avgQuality()*40
		updates[b.ID] = clamp(0.7*b.PerformanceScore+0.3*observed, 0, 100)
	}
	return updates
}

func groupByBackend(outcomes []metrics.Outcome) map[string]group {
	groups := make(map[string]group)
	for _, o := range outcomes {
		g := groups[o.BackendID]
		g.count++
		g.totalLatency += o.LatencyMs
		g.totalCost += o.Cost
		if o.Success {
			g.successes++
		}
		if o.QualityScore != nil {
			g.qualitySum += *o.QualityScore
			g.qualityCount++
		}
		groups[o.BackendID] = g
	}
	return groups
}

// capabilityTiers returns the ids of the highest- and mid-capability
// backends, ranked by output unit cost with registration order as the tie
// break.
func capabilityTiers(backends []backend.Profile) (high, mid string) {
	if len(backends) == 0 {
		return "", ""
	}

	ranked := make([]backend.Profile, len(backends))
	copy(ranked, backends)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UnitCost.Output > ranked[j].UnitCost.Output
	})

	high = ranked[0].ID
	if len(ranked) > 1 {
		mid = ranked[1].ID
	}
	return high, mid
}

func meanQuality(groups map[string]group) float64 {
	var sum float64
	var count int
	for _, g := range groups {
		if g.qualityCount == 0 {
			continue
		}
		sum += g.avgQuality()
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func meanLatency(outcomes []metrics.Outcome) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	var sum int64
	for _, o := range outcomes {
		sum += o.LatencyMs
	}
	return float64(sum) / float64(len(outcomes))
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
