package builtin

import (
	"sort"

	"rosterclean/internal/roster"
)

// Classify sets the completeness flag on every row: 1 when both Height and
// Weight are present.
type Classify struct{}

// Apply flags rows in place.
func (Classify) Apply(in []roster.RawPlayer) []roster.RawPlayer {
	for i := range in {
		in[i].Flag = roster.Flag(in[i].Height, in[i].Weight)
	}
	return in
}

// SortByFlag stable-sorts rows by flag, highest first. Complete rows move
// ahead of incomplete ones while keeping their relative source order, which
// makes a later keep-first DeDup prefer them.
type SortByFlag struct{}

// Apply sorts in place.
func (SortByFlag) Apply(in []roster.RawPlayer) []roster.RawPlayer {
	sort.SliceStable(in, func(i, j int) bool { return in[i].Flag > in[j].Flag })
	return in
}
