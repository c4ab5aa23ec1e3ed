package task

// Type classifies the kind of work a request asks for.
type Type string

const (
	TypeDeepReasoning  Type = "deep_reasoning"
	TypeCode           Type = "code"
	TypeQuickInference Type = "quick_inference"
)

// LatencyTarget expresses how quickly the caller wants an answer.
type LatencyTarget string

const (
	LatencyFast     LatencyTarget = "fast"
	LatencyBalanced LatencyTarget = "balanced"
	LatencyThorough LatencyTarget = "thorough"
)

// CostSensitivity expresses how much the caller cares about spend.
type CostSensitivity string

const (
	CostLow    CostSensitivity = "low"
	CostMedium CostSensitivity = "medium"
	CostHigh   CostSensitivity = "high"
)

// Profile is the structured view of a request. It is immutable once produced
// by Analyze.
type Profile struct {
	TaskType              Type            `json:"task_type"`
	ContextUnits          int             `json:"context_units"`
	Complexity            float64         `json:"complexity"`
	LatencyTarget         LatencyTarget   `json:"latency_target"`
	CostSensitivity       CostSensitivity `json:"cost_sensitivity"`
	Domain                string          `json:"domain"`
	NeedsStructuredOutput bool            `json:"needs_structured_output"`
}

// Turn is a single prior message in the conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Preferences carries optional caller overrides. Empty or unrecognised values
// are ignored field by field.
type Preferences struct {
	LatencyTarget   string `json:"latency_target,omitempty"`
	CostSensitivity string `json:"cost_sensitivity,omitempty"`
	Domain          string `json:"domain,omitempty"`
	TaskType        string `json:"task_type,omitempty"`
}

func (p Preferences) latencyTarget() (LatencyTarget, bool) {
	switch LatencyTarget(p.LatencyTarget) {
	case LatencyFast, LatencyBalanced, LatencyThorough:
		return LatencyTarget(p.LatencyTarget), true
	}
	return "", false
}

func (p Preferences) costSensitivity() (CostSensitivity, bool) {
	switch CostSensitivity(p.CostSensitivity) {
	case CostLow, CostMedium, CostHigh:
		return CostSensitivity(p.CostSensitivity), true
	}
	return "", false
}

func (p Preferences) taskType() (Type, bool) {
	switch Type(p.TaskType) {
	case TypeDeepReasoning, TypeCode, TypeQuickInference:
		return Type(p.TaskType), true
	}
	return "", false
}
