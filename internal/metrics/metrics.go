// Package metrics defines a minimal metrics facade for the ingester.
//
// Ingest code records counters and histograms through package-level helpers
// and never depends on a concrete metrics vendor. A Backend implementation
// (e.g. internal/metrics/datadog) is installed once at startup with
// SetBackend; when none is installed all calls are no-ops.
package metrics

import "sync"

// Labels carries metric dimensions, e.g. {"format": "csv", "status": "ok"}.
type Labels map[string]string

// Backend is the sink for recorded metrics.
//
// Implementations must be safe for concurrent use: ingest goroutines call
// IncCounter and ObserveHistogram at any time.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush submits any buffered metrics.
	Flush() error

	// Close stops background work and performs a final flush.
	Close() error
}

// Metric names recorded by the ingest pipeline.
const (
	// FilesTotal counts processed files, labeled by format and status.
	FilesTotal = "ingest_files_total"

	// RecordsTotal counts appended long-format records, labeled by format.
	RecordsTotal = "ingest_records_total"

	// BatchesTotal counts INSERT batches issued to the sink.
	BatchesTotal = "ingest_batches_total"

	// FileDurationSeconds observes per-file processing time,
	// labeled by format and status.
	FileDurationSeconds = "ingest_file_duration_seconds"
)

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs the process-wide backend. Passing nil restores the
// no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		backend = nopBackend{}
		return
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// IncCounter adds delta to a counter on the installed backend.
func IncCounter(name string, delta float64, labels Labels) {
	current().IncCounter(name, delta, labels)
}

// ObserveHistogram records a sample on the installed backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	current().ObserveHistogram(name, value, labels)
}

// Flush flushes the installed backend.
func Flush() error { return current().Flush() }

// Close closes the installed backend.
func Close() error { return current().Close() }

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }
func (nopBackend) Close() error                             { return nil }
