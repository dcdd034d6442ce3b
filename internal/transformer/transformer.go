// Package transformer defines the row-level transformation contract used by
// the loader. Transformers run in order over the whole in-memory table.
package transformer

import "rosterclean/internal/roster"

// Transformer rewrites a table of raw player rows. Implementations may mutate
// rows in place and may return a shorter slice.
type Transformer interface {
	Apply([]roster.RawPlayer) []roster.RawPlayer
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order, feeding each the previous output.
func (c Chain) Apply(in []roster.RawPlayer) []roster.RawPlayer {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// Func adapts a plain function to Transformer.
type Func func([]roster.RawPlayer) []roster.RawPlayer

// Apply calls f.
func (f Func) Apply(in []roster.RawPlayer) []roster.RawPlayer { return f(in) }
