package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zen-systems/helmsman/pkg/logging"
)

func outcome(backend string, success bool) Outcome {
	return Outcome{
		BackendID: backend,
		TaskType:  "quick_inference",
		Domain:    "general",
		LatencyMs: 100,
		Cost:      0.01,
		Timestamp: time.Now().UTC(),
		Success:   success,
	}
}

func TestRecorder_AppendsAndCounts(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir, 100, logging.Discard())

	for i := 0; i < 5; i++ {
		r.Record(outcome("a", true))
	}

	if got := r.Count(); got != 5 {
		t.Errorf("count = %d, want 5", got)
	}
	if got := len(r.ReadAll()); got != 5 {
		t.Errorf("read back %d records, want 5", got)
	}
}

func TestRecorder_SeedsFromExistingLog(t *testing.T) {
	dir := t.TempDir()

	first := NewRecorder(dir, 100, logging.Discard())
	first.Record(outcome("a", true))
	first.Record(outcome("b", false))

	second := NewRecorder(dir, 100, logging.Discard())
	if got := second.Count(); got != 2 {
		t.Errorf("seeded count = %d, want 2", got)
	}

	stats := second.Stats()
	if stats.TotalRequests != 2 {
		t.Errorf("total = %d, want 2", stats.TotalRequests)
	}
	if stats.SuccessRate != 0.5 {
		t.Errorf("success rate = %.2f, want 0.5", stats.SuccessRate)
	}
	if stats.UsageByBackend["a"] != 1 || stats.UsageByBackend["b"] != 1 {
		t.Errorf("usage = %v, want one each", stats.UsageByBackend)
	}
}

func TestRecorder_BatchCallback(t *testing.T) {
	r := NewRecorder(t.TempDir(), 3, logging.Discard())

	fired := make(chan struct{}, 10)
	r.SetOnBatch(func() { fired <- struct{}{} })

	for i := 0; i < 7; i++ {
		r.Record(outcome("a", true))
	}

	// 7 records with a batch size of 3 crosses two boundaries.
	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("batch callback %d never fired", i+1)
		}
	}
	select {
	case <-fired:
		t.Error("unexpected third batch callback")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRecorder_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir, 100, logging.Discard())
	r.Record(outcome("a", true))

	f, err := os.OpenFile(filepath.Join(dir, "outcomes.jsonl"), os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{corrupt\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r.Record(outcome("b", true))

	records := r.ReadAll()
	if len(records) != 2 {
		t.Errorf("read %d records, want 2 (corrupt line skipped)", len(records))
	}
}

func TestRecorder_StatsAverages(t *testing.T) {
	r := NewRecorder(t.TempDir(), 100, logging.Discard())

	o1 := outcome("a", true)
	o1.Cost = 0.02
	o1.LatencyMs = 200
	o2 := outcome("a", true)
	o2.Cost = 0.04
	o2.LatencyMs = 400
	r.Record(o1)
	r.Record(o2)

	stats := r.Stats()
	if diff := stats.AverageCost - 0.03; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("average cost = %.4f, want 0.03", stats.AverageCost)
	}
	if stats.AverageLatencyMs != 300 {
		t.Errorf("average latency = %.0f, want 300", stats.AverageLatencyMs)
	}
	if stats.SuccessRate != 1 {
		t.Errorf("success rate = %.2f, want 1", stats.SuccessRate)
	}
}

func TestRecorder_EmptyStats(t *testing.T) {
	r := NewRecorder(t.TempDir(), 100, logging.Discard())
	stats := r.Stats()
	if stats.TotalRequests != 0 || stats.AverageCost != 0 || stats.SuccessRate != 0 {
		t.Errorf("empty stats not zeroed: %+v", stats)
	}
}
