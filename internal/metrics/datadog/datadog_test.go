package datadog

import (
	"reflect"
	"testing"

	"rosterclean/internal/metrics"
)

type call struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	calls   []call
	flushed bool
	closed  bool
}

func (f *fakeClient) Count(name string, value int64, tags []string, _ float64) error {
	f.calls = append(f.calls, call{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, _ float64) error {
	f.calls = append(f.calls, call{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Flush() error { f.flushed = true; return nil }
func (f *fakeClient) Close() error { f.closed = true; return nil }

func TestBackend_ForwardsWithSortedTags(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	b := NewWithClient(fc)
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "join", "job": "roster", "status": "success"})
	b.ObserveHistogram(metrics.StepDuration, 0.5, metrics.Labels{"step": "join"})
	b.IncCounter(metrics.ArchiveBatches, 2, nil)

	want := []call{
		{"count", metrics.StepTotal, 1, []string{"job:roster", "status:success", "step:join"}},
		{"histogram", metrics.StepDuration, 0.5, []string{"step:join"}},
		{"count", metrics.ArchiveBatches, 2, nil},
	}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls = %#v\nwant %#v", fc.calls, want)
	}

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !fc.flushed || !fc.closed {
		t.Fatalf("Flush should flush and close the client")
	}
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
	// UDP clients do not dial eagerly, so this works without an agent.
	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "rosterclean.", GlobalTags: []string{"env:test"}})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"kind": metrics.RowsJoined})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestZeroBackend(t *testing.T) {
	t.Parallel()

	var b Backend
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
}
