// Package weights holds the tunable routing coefficients and their
// persistence. The current value is an immutable snapshot swapped atomically,
// so scoring reads never lock and never observe a partial update.
package weights

import "fmt"

// Weights are the coefficients governing how scoring balances capability,
// cost, latency, and quality.
type Weights struct {
	HighComplexityThreshold float64 `json:"high_complexity_threshold"`
	MidComplexityThreshold  float64 `json:"mid_complexity_threshold"`
	SizeMultiplier          float64 `json:"size_multiplier"`
	CostWeight              float64 `json:"cost_weight"`
	LatencyWeight           float64 `json:"latency_weight"`
	QualityWeight           float64 `json:"quality_weight"`
}

// Default returns the built-in weights used before any retune has run.
func Default() Weights {
	return Weights{
		HighComplexityThreshold: 75,
		MidComplexityThreshold:  45,
		SizeMultiplier:          1.2,
		CostWeight:              0.3,
		LatencyWeight:           0.35,
		QualityWeight:           0.35,
	}
}

// Validate checks the structural invariants: ordered thresholds and
// non-negative weights.
func (w Weights) Validate() error {
	if w.MidComplexityThreshold >= w.HighComplexityThreshold {
		return fmt.Errorf("mid complexity threshold %.2f must be below high threshold %.2f",
			w.MidComplexityThreshold, w.HighComplexityThreshold)
	}
	if w.CostWeight < 0 || w.LatencyWeight < 0 || w.QualityWeight < 0 {
		return fmt.Errorf("weights must be non-negative (cost=%.2f latency=%.2f quality=%.2f)",
			w.CostWeight, w.LatencyWeight, w.QualityWeight)
	}
	return nil
}
