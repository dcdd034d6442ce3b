// Package storage contains storage-agnostic contracts for the archive sink:
// a Repository interface, a registry of backend factories keyed by kind, a
// DDL registry, and a batched loader.
//
// Backends register themselves in init; import storage/all to enable every
// built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal contract every backend implements.
type Repository interface {
	// CopyFrom inserts rows aligned to columns and returns the number of rows
	// written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of registered kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
