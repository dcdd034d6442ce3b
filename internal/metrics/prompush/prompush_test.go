package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"rosterclean/internal/metrics"
)

// TestNewBackend constructs backends with different inputs and validates
// defaults.
func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL returns error", jobName: "roster", wantErr: true},
		{name: "empty job name uses default", gatewayURL: "http://pushgateway:9091", wantJobName: "rosterclean"},
		{name: "explicit job name is preserved", jobName: "nightly", gatewayURL: "http://pushgateway:9091", wantJobName: "nightly"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend(%q, %q) = %v, %v; want nil, error", tt.jobName, tt.gatewayURL, b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend error = %v", err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

// TestIncCounterAndObserve verifies routing of metric names to collectors.
func TestIncCounterAndObserve(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("roster", "http://unused")
	if err != nil {
		t.Fatal(err)
	}

	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "deduplicate", "status": "success"})
	b.IncCounter(metrics.StepTotal, 2, metrics.Labels{"step": "deduplicate", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 4, metrics.Labels{"kind": metrics.RowsDuplicatesDropped})
	b.IncCounter(metrics.ArchiveBatches, 3, nil)
	b.IncCounter("unknown_metric", 99, nil)
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "join", "status": "failure"})
	b.ObserveHistogram("unknown_hist", 1, nil)

	if got := testutil.ToFloat64(b.stepCounter.WithLabelValues("deduplicate", "success")); got != 3 {
		t.Fatalf("step counter = %v, want 3", got)
	}
	if got := testutil.ToFloat64(b.rowCounter.WithLabelValues(metrics.RowsDuplicatesDropped)); got != 4 {
		t.Fatalf("row counter = %v, want 4", got)
	}
	if got := testutil.ToFloat64(b.batchCounter); got != 3 {
		t.Fatalf("batch counter = %v, want 3", got)
	}
	if n := testutil.CollectAndCount(b.stepDuration); n != 1 {
		t.Fatalf("summary series = %d, want 1", n)
	}
}

// TestIncCounterNilMetrics ensures a zero Backend ignores updates.
func TestIncCounterNilMetrics(t *testing.T) {
	t.Parallel()

	var b Backend
	b.IncCounter(metrics.StepTotal, 1, nil)
	b.IncCounter(metrics.RowsTotal, 1, nil)
	b.IncCounter(metrics.ArchiveBatches, 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
}

// TestFlush verifies that Flush pushes the registry to the Pushgateway under
// the job grouping key.
func TestFlush(t *testing.T) {
	t.Parallel()

	type pushRequest struct {
		method string
		path   string
		body   string
	}
	reqCh := make(chan pushRequest, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushRequest{method: r.Method, path: r.URL.Path, body: string(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("roster", server.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "join", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got pushRequest
	select {
	case got = <-reqCh:
	default:
		t.Fatalf("Flush() did not send a request to the Pushgateway")
	}
	if got.method != http.MethodPut {
		t.Fatalf("method = %q, want PUT", got.method)
	}
	if !strings.Contains(got.path, "/job/roster") {
		t.Fatalf("path = %q, want job grouping key", got.path)
	}
	if len(got.body) == 0 {
		t.Fatalf("push body is empty")
	}
}
