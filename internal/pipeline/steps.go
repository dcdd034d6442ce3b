// Package pipeline runs the roster cleaning steps: load and deduplicate
// players, fill missing measurements with column means, count players per
// position, and join players with team payroll data. Each step is a plain
// function over in-memory tables; Runner chains them for one configured run.
package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"rosterclean/internal/datasource"
	"rosterclean/internal/parser"
	"rosterclean/internal/report"
	"rosterclean/internal/roster"
	"rosterclean/internal/transformer"
	"rosterclean/internal/transformer/builtin"
)

// DedupResult is the outcome of Deduplicate.
type DedupResult struct {
	Players []roster.Player
	Read    int // rows read from the source
	Dropped int // rows removed as duplicates
}

// Deduplicate reads the player table from src and returns one player per
// (Name, Team, Position). Within a duplicate group the first row with both
// Height and Weight present wins; when no row is complete, the first row
// wins. Height, Weight and Age are then parsed as numbers.
func Deduplicate(ctx context.Context, src datasource.Source, p parser.Parser, policy string) (DedupResult, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return DedupResult{}, err
	}
	defer rc.Close()

	raw, err := p.Players(rc)
	if err != nil {
		return DedupResult{}, fmt.Errorf("parse players: %w", err)
	}
	res := DedupResult{Read: len(raw)}

	kept := transformer.Chain{
		builtin.Normalize{},
		builtin.Classify{},
		builtin.SortByFlag{},
		builtin.DeDup{Policy: policy},
	}.Apply(raw)
	res.Dropped = res.Read - len(kept)

	res.Players, err = builtin.Coerce(kept)
	if err != nil {
		return DedupResult{}, fmt.Errorf("coerce players: %w", err)
	}
	return res, nil
}

// EmptyToAverage replaces missing values in each named column with the mean
// of that column's present values. A column with no present value is left
// as is and reported Skipped.
func EmptyToAverage(players []roster.Player, columns ...string) ([]builtin.ImputeResult, error) {
	return builtin.Impute{Columns: columns}.Apply(players)
}

// PlayersByPosition counts players per distinct value of column and writes
// the (column, Count) table to sink.
func PlayersByPosition(ctx context.Context, players []roster.Player, column string, sink datasource.Sink, format report.Format) ([]report.Count, error) {
	counts, err := report.CountBy(players, column)
	if err != nil {
		return nil, err
	}
	if err := put(ctx, sink, format, report.CountTable(column, counts)); err != nil {
		return nil, err
	}
	return counts, nil
}

// JoinResult is the outcome of SecondOutput.
type JoinResult struct {
	Rows      []roster.Output
	TeamsRead int
}

// SecondOutput reads the team table, computes each player's BMI, inner-joins
// players with teams on Team and writes the joined table to sink.
func SecondOutput(ctx context.Context, teamsSrc datasource.Source, p parser.Parser, players []roster.Player, sink datasource.Sink, format report.Format) (JoinResult, error) {
	teams, err := loadTeams(ctx, teamsSrc, p)
	if err != nil {
		return JoinResult{}, err
	}
	rows := report.Join(players, teams)
	if err := put(ctx, sink, format, report.OutputTable(rows)); err != nil {
		return JoinResult{}, err
	}
	return JoinResult{Rows: rows, TeamsRead: len(teams)}, nil
}

func loadTeams(ctx context.Context, src datasource.Source, p parser.Parser) ([]roster.Team, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	teams, err := p.Teams(rc)
	if err != nil {
		return nil, fmt.Errorf("parse teams: %w", err)
	}
	var n builtin.Normalize
	for i := range teams {
		teams[i].Team = n.Text(teams[i].Team)
	}
	return teams, nil
}

// put encodes t in memory and hands the complete payload to sink.
func put(ctx context.Context, sink datasource.Sink, format report.Format, t report.Table) error {
	var buf bytes.Buffer
	if err := report.Encode(&buf, format, t); err != nil {
		return err
	}
	return sink.Put(ctx, &buf)
}
