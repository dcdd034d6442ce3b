// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from a cleaning run.
//
// It exposes a narrow Backend interface (counters and timings) behind a
// global that defaults to a no-op, so instrumentation is always safe to call.
// Concrete systems live in subpackages: prompush (Prometheus Pushgateway) and
// datadog (DogStatsD).
package metrics

import (
	"sync"
	"time"
)

// Metric names.
const (
	StepTotal      = "roster_step_total"
	StepDuration   = "roster_step_duration_seconds"
	RowsTotal      = "roster_rows_total"
	ArchiveBatches = "roster_archive_batches_total"
)

// Row kinds passed to RecordRow.
const (
	RowsPlayersRead       = "players_read"
	RowsDuplicatesDropped = "duplicates_dropped"
	RowsPlayersKept       = "players_kept"
	RowsImputed           = "imputed"
	RowsTeamsRead         = "teams_read"
	RowsJoined            = "joined"
	RowsArchived          = "archived"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

// Reset restores the no-op backend.
func Reset() {
	mu.Lock()
	backend = nopBackend{}
	mu.Unlock()
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep records one execution of a pipeline step: a counter labeled by
// outcome and its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow increments a row-level counter for the given job and kind (one of
// the Rows* constants). Non-positive deltas are ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments the archive batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(ArchiveBatches, float64(delta), Labels{
		"job": job,
	})
}
