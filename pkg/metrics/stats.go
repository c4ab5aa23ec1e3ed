package metrics

// Stats summarizes the recorded outcomes for the operational dashboard.
type Stats struct {
	TotalRequests    int64            `json:"total_requests"`
	UsageByBackend   map[string]int64 `json:"usage_by_backend"`
	AverageCost      float64          `json:"average_cost"`
	AverageLatencyMs float64          `json:"average_latency_ms"`
	SuccessRate      float64          `json:"success_rate"`
}

// Stats returns a snapshot of the running aggregates.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{
		TotalRequests:  r.count,
		UsageByBackend: make(map[string]int64, len(r.usageByBackend)),
	}
	for id, n := range r.usageByBackend {
		s.UsageByBackend[id] = n
	}
	if r.count > 0 {
		s.AverageCost = r.totalCost / float64(r.count)
		s.AverageLatencyMs = float64(r.totalLatencyMs) / float64(r.count)
		s.SuccessRate = float64(r.successCount) / float64(r.count)
	}
	return s
}
