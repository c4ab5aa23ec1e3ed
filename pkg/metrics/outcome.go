package metrics

import "time"

// Outcome is one completed request's result. Records are append-only: created
// once by the caller after the backend responds, never mutated, and read in
// bulk by the weight tuner.
type Outcome struct {
	BackendID       string    `json:"backend_id"`
	TaskType        string    `json:"task_type"`
	Domain          string    `json:"domain"`
	LatencyMs       int64     `json:"latency_ms"`
	PromptUnits     int       `json:"prompt_units"`
	CompletionUnits int       `json:"completion_units"`
	Cost            float64   `json:"cost"`
	Timestamp       time.Time `json:"timestamp"`
	Success         bool      `json:"success"`
	QualityScore    *float64  `json:"quality_score,omitempty"`
}
