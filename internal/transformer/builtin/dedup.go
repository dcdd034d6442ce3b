// Package builtin contains the transformers used by the roster loader.
//
// DeDup collapses rows sharing the (Name, Team, Position) business key. The
// policy decides the survivor:
//
//   - "keep-first": the earliest row in the current order wins (default)
//   - "keep-last" : the latest row wins
//
// Run it after Classify and SortByFlag so that keep-first picks the most
// complete row of each group.
package builtin

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"rosterclean/internal/roster"
)

// DeDup implements an in-memory de-duplication policy.
type DeDup struct {
	// Policy is "keep-first" (default) or "keep-last".
	Policy string
}

// Key hashes the business key of r. Cells are separated by a unit separator
// so that ("ab","c") and ("a","bc") differ.
func Key(r roster.RawPlayer) xxh3.Uint128 {
	var b strings.Builder
	b.Grow(len(r.Name) + len(r.Team) + len(r.Position) + 2)
	b.WriteString(r.Name)
	b.WriteByte('\x1f')
	b.WriteString(r.Team)
	b.WriteByte('\x1f')
	b.WriteString(r.Position)
	return xxh3.HashString128(b.String())
}

// Apply returns the surviving rows. Survivors keep their relative order.
func (d DeDup) Apply(in []roster.RawPlayer) []roster.RawPlayer {
	if len(in) == 0 {
		return in
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))

	winners := make(map[xxh3.Uint128]int, len(in))
	for i, r := range in {
		k := Key(r)
		if _, seen := winners[k]; seen && policy != "keep-last" {
			continue
		}
		winners[k] = i
	}

	idx := make([]int, 0, len(winners))
	for _, i := range winners {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	out := make([]roster.RawPlayer, 0, len(idx))
	for _, i := range idx {
		out = append(out, in[i])
	}
	return out
}
