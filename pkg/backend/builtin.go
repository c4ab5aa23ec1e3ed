package backend

import "time"

// Builtin returns the default backend set: a deep-reasoning tier, a code
// tier, and a cheap quick-inference tier. Costs are per 1000 context units.
func Builtin() []Profile {
	return []Profile{
		{
			ID:                "claude-opus-4-20250514",
			MaxContextUnits:   200000,
			UnitCost:          UnitCost{Input: 0.015, Output: 0.075},
			ExpectedLatencyMs: 4500,
			CapabilityTags:    []string{TagDeepReasoning, TagReasoning, TagAnalysis},
			ReleaseTimestamp:  time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC),
			PerformanceScore:  90,
			Origin:            OriginBuiltin,
		},
		{
			ID:                "claude-sonnet-4-20250514",
			MaxContextUnits:   200000,
			UnitCost:          UnitCost{Input: 0.003, Output: 0.015},
			ExpectedLatencyMs: 2000,
			CapabilityTags:    []string{TagCode, TagAnalysis},
			ReleaseTimestamp:  time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC),
			PerformanceScore:  80,
			Origin:            OriginBuiltin,
		},
		{
			ID:                "gpt-5.2-instant",
			MaxContextUnits:   128000,
			UnitCost:          UnitCost{Input: 0.0002, Output: 0.0008},
			ExpectedLatencyMs: 800,
			CapabilityTags:    []string{TagQuickInference},
			ReleaseTimestamp:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			PerformanceScore:  65,
			Origin:            OriginBuiltin,
		},
	}
}

// NewBuiltinRegistry creates a registry seeded with the builtin backends.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, p := range Builtin() {
		// Builtin profiles have unique ids; Add cannot fail here.
		_ = r.Add(p)
	}
	return r
}
