package builtin

import (
	"fmt"

	"rosterclean/internal/roster"
)

// Impute fills missing numeric values with the column mean.
type Impute struct {
	// Columns lists numeric player columns, e.g. ["Height", "Weight"].
	Columns []string
}

// ImputeResult describes what happened to one column.
type ImputeResult struct {
	Column string
	Mean   float64 // mean of the present values; zero when Skipped
	Filled int     // number of missing values replaced
	// Skipped is set when the column has no present value, so no mean
	// exists. The column is left missing.
	Skipped bool
}

// Apply fills players in place. Each column's mean is computed over the
// values present before any filling, independently of the other columns.
func (im Impute) Apply(players []roster.Player) ([]ImputeResult, error) {
	results := make([]ImputeResult, 0, len(im.Columns))
	for _, col := range im.Columns {
		var probe roster.Player
		if probe.Measure(col) == nil {
			return nil, fmt.Errorf("impute: %q is not a numeric column", col)
		}

		var sum float64
		var n int
		for i := range players {
			if v := *players[i].Measure(col); v != nil {
				sum += *v
				n++
			}
		}

		res := ImputeResult{Column: col}
		if n == 0 {
			res.Skipped = true
			results = append(results, res)
			continue
		}
		res.Mean = sum / float64(n)

		for i := range players {
			if dst := players[i].Measure(col); *dst == nil {
				*dst = roster.Float(res.Mean)
				res.Filled++
			}
		}
		results = append(results, res)
	}
	return results, nil
}
