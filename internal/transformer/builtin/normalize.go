package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"rosterclean/internal/roster"
)

// Normalize cleans every cell of a raw row: Unicode is recomposed to NFC so
// that visually identical names compare equal, surrounding whitespace
// (including NBSP) is trimmed, and cells that roster.Missing reports (blank or
// an NA marker such as "NaN" or "NULL") become empty.
type Normalize struct{}

// Apply normalizes rows in place.
func (n Normalize) Apply(in []roster.RawPlayer) []roster.RawPlayer {
	for i := range in {
		for _, c := range in[i].Cells() {
			*c = n.Text(*c)
		}
	}
	return in
}

// Text normalizes a single cell. It is also used for the team join key so
// both tables agree on spelling.
func (Normalize) Text(s string) string {
	if s == "" {
		return s
	}
	s = strings.TrimSpace(s)
	if roster.Missing(s) {
		return ""
	}
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	return s
}
