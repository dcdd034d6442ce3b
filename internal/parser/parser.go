// Package parser holds the contracts shared by the table readers.
package parser

import (
	"errors"
	"io"

	"rosterclean/internal/roster"
)

// ErrNoHeader is returned when a source does not even contain a header row.
var ErrNoHeader = errors.New("no header row")

// Parser turns raw bytes into typed rows at the load boundary.
type Parser interface {
	Players(r io.Reader) ([]roster.RawPlayer, error)
	Teams(r io.Reader) ([]roster.Team, error)
}
