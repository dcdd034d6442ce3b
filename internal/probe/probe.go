// Package probe samples the head of a player or team table and reports its
// shape: the delimiter, the header, an inferred type per column and anything
// that would make the full load fail. It reads at most Options.Bytes from the
// source, so probing a large object is cheap.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"rosterclean/internal/datasource"
	"rosterclean/internal/roster"
)

// DefaultBytes is the sample size used when Options.Bytes is zero.
const DefaultBytes = 64 << 10

// Table names a known table layout.
type Table string

const (
	Players Table = "players"
	Teams   Table = "teams"
)

// Columns returns the names the loader assigns to the table's columns and the
// subset that must be numeric.
func (t Table) Columns() (names, numeric []string, err error) {
	switch t {
	case Players:
		return roster.PlayerColumns, roster.MeasureColumns, nil
	case Teams:
		return roster.TeamColumns, roster.TeamColumns[1:], nil
	}
	return nil, nil, fmt.Errorf("probe: unknown table %q (want players or teams)", t)
}

// Options control sampling.
type Options struct {
	Table Table

	// Bytes caps how much of the source is read.
	Bytes int

	// Delimiter forces the field delimiter. Empty means detect.
	Delimiter string
}

// Column describes one sampled column.
type Column struct {
	Position int    `json:"position"`
	Header   string `json:"header"`
	Name     string `json:"name"`  // name the loader gives the column; empty past the layout
	Type     string `json:"type"`  // integer, real, text or empty
	Empty    int    `json:"empty"` // missing cells in the sample
}

// Result is the outcome of Probe.
type Result struct {
	Table     Table    `json:"table"`
	Source    string   `json:"source,omitempty"`
	Delimiter string   `json:"delimiter"`
	Rows      int      `json:"rows"`
	Columns   []Column `json:"columns"`
	Issues    []string `json:"issues,omitempty"`
}

// OK reports whether the sample would load cleanly.
func (r Result) OK() bool { return len(r.Issues) == 0 }

// Probe samples src and checks it against the layout of opt.Table.
func Probe(ctx context.Context, src datasource.Source, opt Options) (Result, error) {
	names, numeric, err := opt.Table.Columns()
	if err != nil {
		return Result{}, err
	}
	n := opt.Bytes
	if n <= 0 {
		n = DefaultBytes
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	data, truncated, err := readHead(rc, n)
	if err != nil {
		return Result{}, fmt.Errorf("probe: read sample: %w", err)
	}

	delim := decodeDelimiter(opt.Delimiter)
	if opt.Delimiter == "" {
		delim = detectDelimiter(data)
	}
	headers, rows, wide := readSample(data, delim, len(names))
	if headers == nil {
		return Result{}, fmt.Errorf("probe: sample has no header row")
	}

	res := Result{
		Table:     opt.Table,
		Delimiter: string(delim),
		Rows:      len(rows),
	}
	if s, ok := src.(fmt.Stringer); ok {
		res.Source = s.String()
	}

	width := max(len(headers), len(names))
	types := inferTypes(rows, width)
	for i := 0; i < width; i++ {
		c := Column{Position: i + 1, Type: types[i].kind, Empty: types[i].empty}
		if i < len(headers) {
			c.Header = headers[i]
		}
		if i < len(names) {
			c.Name = names[i]
		}
		res.Columns = append(res.Columns, c)
	}

	if len(headers) > len(names) {
		res.issue("header has %d columns; the %s table has %d (%s)",
			len(headers), opt.Table, len(names), strings.Join(names, ", "))
	}
	if wide > 0 {
		res.issue("%d sampled rows have more than %d fields", wide, len(names))
	}
	for i, c := range res.Columns {
		if c.Name == "" || c.Header == "" {
			continue
		}
		if !strings.EqualFold(c.Header, c.Name) {
			res.issue("column %d header %q is read as %s", c.Position, c.Header, c.Name)
		}
		if contains(numeric, c.Name) && c.Type == "text" {
			res.issue("column %s has non-numeric values, e.g. %q", c.Name, types[i].example)
		}
	}
	if truncated && len(rows) == 0 {
		res.issue("sample of %d bytes holds no complete data row", n)
	}
	return res, nil
}

func (r *Result) issue(format string, a ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, a...))
}

// WriteText renders r as an aligned table followed by its issues.
func (r Result) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "table: %s\tdelimiter: %q\trows sampled: %d\n", r.Table, r.Delimiter, r.Rows)
	fmt.Fprintln(tw, "#\theader\tread as\ttype\tempty")
	for _, c := range r.Columns {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", c.Position, c.Header, orDash(c.Name), c.Type, c.Empty)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, iss := range r.Issues {
		if _, err := fmt.Fprintf(w, "issue: %s\n", iss); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON renders r as indented JSON.
func (r Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
