// Package datasource defines where tables are read from and written to. The
// file and s3ds subpackages implement Source and Sink for the local disk and
// S3 respectively.
package datasource

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is matched (errors.Is) by every Source when the addressed file
// or object does not exist.
var ErrNotFound = errors.New("datasource: not found")

// Source opens a table for reading. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Sink stores a complete encoded table. Put either stores everything read
// from r or returns an error; a failed Put leaves no partial object behind
// where the backend allows it.
type Sink interface {
	Put(ctx context.Context, r io.Reader) error
}
