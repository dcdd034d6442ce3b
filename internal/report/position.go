// Package report builds the pipeline's two outputs: per-category player
// counts and the player/team join, plus the encoders that serialize them.
package report

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"rosterclean/internal/roster"
)

// Count is one line of a category report.
type Count struct {
	Value string
	Count int
}

// CountBy groups players by the text column (Name, Team or Position) and
// counts rows per distinct value. Rows where the column is missing are not
// counted. Values are returned in ascending order.
func CountBy(players []roster.Player, column string) ([]Count, error) {
	values := make([]string, 0, len(players))
	for _, p := range players {
		v, ok := p.Text(column)
		if !ok {
			return nil, fmt.Errorf("count by %q: not a text column", column)
		}
		if v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return []Count{}, nil
	}

	df := dataframe.New(series.New(values, series.String, column))
	agg := df.GroupBy(column).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT},
		[]string{column},
	)
	if agg.Err != nil {
		return nil, fmt.Errorf("count by %q: %w", column, agg.Err)
	}

	keys := agg.Col(column).Records()
	counts := agg.Col(column + "_COUNT").Float()
	if len(keys) != len(counts) {
		return nil, fmt.Errorf("count by %q: %d groups but %d counts", column, len(keys), len(counts))
	}

	out := make([]Count, len(keys))
	for i := range keys {
		out[i] = Count{Value: keys[i], Count: int(counts[i])}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}
