package router

import (
	"math"

	"github.com/zen-systems/helmsman/pkg/backend"
	"github.com/zen-systems/helmsman/pkg/task"
	"github.com/zen-systems/helmsman/pkg/weights"
)

// costCeiling is the estimated per-request cost, in USD, that normalizes to a
// cost score of zero. Anything at or above it is treated as maximally
// expensive.
const costCeiling = 0.1

// latencyTargets maps a latency preference to its target budget in
// milliseconds.
var latencyTargets = map[task.LatencyTarget]float64{
	task.LatencyFast:     1000,
	task.LatencyBalanced: 2500,
	task.LatencyThorough: 5000,
}

// Score computes a composite suitability score for every backend. Scores are
// unbounded sums; only the relative ordering matters. The profile's
// performance score is read, never written, here.
func Score(profile task.Profile, backends []backend.Profile, w weights.Weights) map[string]float64 {
	scores := make(map[string]float64, len(backends))
	for _, b := range backends {
		scores[b.ID] = scoreBackend(profile, b, w)
	}
	return scores
}

func scoreBackend(profile task.Profile, b backend.Profile, w weights.Weights) float64 {
	total := capabilityMatch(profile.TaskType, b)
	total += complexityFit(profile.Complexity, b.PerformanceScore)
	total += costEfficiency(profile, b) * w.CostWeight * 50
	total += latencyFit(profile.LatencyTarget, b.ExpectedLatencyMs) * w.LatencyWeight * 50
	total += b.PerformanceScore / 100 * 10
	return total
}

// capabilityMatch scores 0-40 based on how well the backend's tags cover the
// task type.
func capabilityMatch(taskType task.Type, b backend.Profile) float64 {
	switch {
	case b.HasTag(string(taskType)):
		return 40
	case taskType == task.TypeDeepReasoning && b.HasTag(backend.TagReasoning):
		return 30
	case taskType == task.TypeCode && b.HasTag(backend.TagAnalysis):
		return 25
	}
	return 0
}

// complexityFit scores 0-30 by how close the backend's learned performance
// sits to the task's ideal capability level.
func complexityFit(complexity, performanceScore float64) float64 {
	ideal := complexity + 10
	fit := math.Max(0, 1-math.Abs(performanceScore-ideal)/100)
	return fit * 30
}

// costEfficiency returns the 0-1 cost score before weighting. Sensitivity
// reshapes the curve: high flattens it (still prefers cheap, less punishing
// of mid-cost), low sharpens toward the cheapest option.
func costEfficiency(profile task.Profile, b backend.Profile) float64 {
	estimated := (b.UnitCost.Input + b.UnitCost.Output) * float64(profile.ContextUnits) / 1000
	normalized := math.Min(estimated/costCeiling, 1)
	score := 1 - normalized

	switch profile.CostSensitivity {
	case task.CostHigh:
		score = math.Sqrt(score)
	case task.CostLow:
		score = score * score
	}
	return score
}

// latencyFit returns the 0-1 latency score before weighting: full marks
// within the target budget, linear falloff past it.
func latencyFit(target task.LatencyTarget, expectedMs int) float64 {
	budget, ok := latencyTargets[target]
	if !ok {
		budget = latencyTargets[task.LatencyBalanced]
	}

	expected := float64(expectedMs)
	if expected <= budget {
		return 1
	}
	return math.Max(0, 1-(expected-budget)/budget)
}
