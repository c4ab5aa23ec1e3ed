package metrics

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	logFileName = "outcomes.jsonl"

	// DefaultBatchSize is how many records accumulate between retune triggers.
	DefaultBatchSize = 100
)

// Recorder appends outcome records to a durable JSONL log and keeps running
// aggregates for the stats endpoint. Appends are serialized by a single
// writer lock; I/O failures are logged and swallowed so the request path is
// never degraded by telemetry persistence.
//
// The log grows without bound: retunes replay the full history, so rotation
// would silently change tuning inputs.
type Recorder struct {
	mu        sync.Mutex
	path      string
	count     int64
	batchSize int
	onBatch   func()
	logger    *slog.Logger

	// running aggregates, guarded by mu
	usageByBackend map[string]int64
	totalCost      float64
	totalLatencyMs int64
	successCount   int64
}

// NewRecorder opens (or seeds from) the outcome log under dataDir. An
// unreadable log is not fatal: counting restarts from zero and aggregates
// rebuild as new records arrive.
func NewRecorder(dataDir string, batchSize int, logger *slog.Logger) *Recorder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		path:           filepath.Join(dataDir, logFileName),
		batchSize:      batchSize,
		logger:         logger,
		usageByBackend: make(map[string]int64),
	}
	r.seed()
	return r
}

// SetOnBatch registers the callback fired whenever the record counter crosses
// a batch boundary. The callback runs on its own goroutine; failures inside
// it never surface to Record callers.
func (r *Recorder) SetOnBatch(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onBatch = fn
}

// Record appends one outcome. It never returns an error: a failed append is
// logged and the record dropped, since metrics are best-effort telemetry.
func (r *Recorder) Record(o Outcome) {
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(o)
	if err != nil {
		r.logger.Warn("dropping outcome record", "error", err)
		return
	}

	r.mu.Lock()
	if err := r.append(data); err != nil {
		r.mu.Unlock()
		r.logger.Warn("failed to append outcome record", "path", r.path, "error", err)
		return
	}

	r.count++
	r.usageByBackend[o.BackendID]++
	r.totalCost += o.Cost
	r.totalLatencyMs += o.LatencyMs
	if o.Success {
		r.successCount++
	}

	fire := r.onBatch != nil && r.count%int64(r.batchSize) == 0
	fn := r.onBatch
	r.mu.Unlock()

	if fire {
		go fn()
	}
}

func (r *Recorder) append(line []byte) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// Count returns the number of recorded outcomes, including those replayed
// from the log at startup.
func (r *Recorder) Count() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// ReadAll returns every outcome in the log. Lines that fail to parse are
// skipped with a log line rather than aborting the read.
func (r *Recorder) ReadAll() []Outcome {
	f, err := os.Open(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("failed to open outcome log", "path", r.path, "error", err)
		}
		return nil
	}
	defer f.Close()

	var outcomes []Outcome
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var o Outcome
		if err := json.Unmarshal(line, &o); err != nil {
			r.logger.Warn("skipping malformed outcome record", "error", err)
			continue
		}
		outcomes = append(outcomes, o)
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("outcome log read stopped early", "path", r.path, "error", err)
	}
	return outcomes
}

// seed rebuilds the counter and aggregates from the existing log so stats
// survive restarts.
func (r *Recorder) seed() {
	for _, o := range r.ReadAll() {
		r.count++
		r.usageByBackend[o.BackendID]++
		r.totalCost += o.Cost
		r.totalLatencyMs += o.LatencyMs
		if o.Success {
			r.successCount++
		}
	}
}
