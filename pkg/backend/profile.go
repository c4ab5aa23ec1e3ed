package backend

import "time"

// Origin records how a profile entered the registry.
type Origin string

const (
	OriginBuiltin    Origin = "builtin"
	OriginDiscovered Origin = "discovered"
)

// Capability tags understood by the scorer.
const (
	TagDeepReasoning  = "deep_reasoning"
	TagCode           = "code"
	TagQuickInference = "quick_inference"
	TagReasoning      = "reasoning"
	TagAnalysis       = "analysis"
	TagGeneral        = "general"
)

// UnitCost is the price per 1000 context units.
type UnitCost struct {
	Input  float64 `json:"input" yaml:"input"`
	Output float64 `json:"output" yaml:"output"`
}

// Profile describes one candidate backend model.
type Profile struct {
	ID                string    `json:"id" yaml:"id"`
	MaxContextUnits   int       `json:"max_context_units" yaml:"max_context_units"`
	UnitCost          UnitCost  `json:"unit_cost" yaml:"unit_cost"`
	ExpectedLatencyMs int       `json:"expected_latency_ms" yaml:"expected_latency_ms"`
	CapabilityTags    []string  `json:"capability_tags" yaml:"capability_tags"`
	ReleaseTimestamp  time.Time `json:"release_timestamp,omitempty" yaml:"release_timestamp,omitempty"`
	PerformanceScore  float64   `json:"performance_score" yaml:"performance_score"`
	Origin            Origin    `json:"origin" yaml:"origin"`
}

// HasTag reports whether the profile carries the given capability tag.
func (p Profile) HasTag(tag string) bool {
	for _, t := range p.CapabilityTags {
		if t == tag {
			return true
		}
	}
	return false
}
