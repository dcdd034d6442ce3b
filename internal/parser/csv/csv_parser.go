// Package csv reads the player and team tables from CSV. The header row is
// discarded and columns are assigned positionally, so files with localized or
// misspelled headers load the same way.
package csv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"rosterclean/internal/parser"
	"rosterclean/internal/roster"
)

// Options configures the CSV parser. The zero value reads comma-separated
// input.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// LazyQuotes tolerates stray quotes inside unquoted fields.
	LazyQuotes bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

var _ parser.Parser = (*Parser)(nil)

// Players reads a player table. Rows shorter than six fields are padded with
// missing cells; wider rows are an error.
func (p *Parser) Players(r io.Reader) ([]roster.RawPlayer, error) {
	var out []roster.RawPlayer
	err := p.rows(r, len(roster.PlayerColumns), func(line int, rec []string) error {
		out = append(out, roster.RawPlayer{
			Line:     line,
			Name:     rec[0],
			Team:     rec[1],
			Position: rec[2],
			Height:   rec[3],
			Weight:   rec[4],
			Age:      rec[5],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Teams reads the team table and coerces Payroll and Wins to numbers.
func (p *Parser) Teams(r io.Reader) ([]roster.Team, error) {
	var out []roster.Team
	err := p.rows(r, len(roster.TeamColumns), func(line int, rec []string) error {
		payroll, err := roster.ParseMeasure(rec[1])
		if err != nil {
			return &roster.FieldError{Line: line, Column: "Payroll", Value: rec[1], Err: err}
		}
		wins, err := roster.ParseMeasure(rec[2])
		if err != nil {
			return &roster.FieldError{Line: line, Column: "Wins", Value: rec[2], Err: err}
		}
		out = append(out, roster.Team{Team: rec[0], Payroll: payroll, Wins: wins})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// rows skips the header and calls fn for every body row, padded to width.
func (p *Parser) rows(r io.Reader, width int, fn func(line int, rec []string) error) error {
	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	cr := csv.NewReader(br)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return parser.ErrNoHeader
		}
		return fmt.Errorf("read csv header: %w", err)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) > width {
			return fmt.Errorf("line %d: expected at most %d fields, got %d", line, width, len(rec))
		}
		for len(rec) < width {
			rec = append(rec, "")
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}
