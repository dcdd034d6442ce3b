package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"rosterclean/internal/config"
	"rosterclean/internal/datasource"
)

// memSource serves a fixed payload.
type memSource struct{ data string }

func (m memSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(m.data)), nil
}

// memSink keeps the last payload written to it.
type memSink struct {
	mu   sync.Mutex
	data []byte
	puts int
	err  error
}

func (m *memSink) Put(_ context.Context, r io.Reader) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = bytes.Clone(b)
	m.puts++
	return nil
}

func (m *memSink) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data)
}

// memEndpoints resolves locations by their String form.
type memEndpoints struct {
	sources map[string]string
	sinks   map[string]*memSink
}

func newMemEndpoints() *memEndpoints {
	return &memEndpoints{sources: map[string]string{}, sinks: map[string]*memSink{}}
}

func (e *memEndpoints) Source(loc config.Location) (datasource.Source, error) {
	data, ok := e.sources[loc.String()]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", loc, datasource.ErrNotFound)
	}
	return memSource{data: data}, nil
}

func (e *memEndpoints) Sink(loc config.Location) (datasource.Sink, error) {
	s, ok := e.sinks[loc.String()]
	if !ok {
		s = &memSink{}
		e.sinks[loc.String()] = s
	}
	return s, nil
}
