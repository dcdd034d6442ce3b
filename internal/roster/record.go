// Package roster defines the typed records that flow through the cleaning
// pipeline: raw player rows as read from a source, coerced players, teams and
// the joined output rows.
package roster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names, in source order. Input headers are discarded and replaced
// positionally by these names.
var (
	PlayerColumns = []string{"Name", "Team", "Position", "Height", "Weight", "Age"}
	TeamColumns   = []string{"Team", "Payroll", "Wins"}
	OutputColumns = []string{"Name", "Team", "Position", "Height", "Weight", "Age", "bmi", "Payroll", "Wins"}

	// TextColumns and MeasureColumns split PlayerColumns by type.
	TextColumns    = []string{"Name", "Team", "Position"}
	MeasureColumns = []string{"Height", "Weight", "Age"}
)

// RawPlayer is a player row before numeric coercion. An empty cell is
// missing; Normalize turns whitespace-only and NA-marker cells into empty ones.
type RawPlayer struct {
	Line     int // 1-based source line, header is line 1
	Name     string
	Team     string
	Position string
	Height   string
	Weight   string
	Age      string
	Flag     int
}

// Cells returns pointers to the six cells in PlayerColumns order so that
// transformers can rewrite them uniformly.
func (r *RawPlayer) Cells() []*string {
	return []*string{&r.Name, &r.Team, &r.Position, &r.Height, &r.Weight, &r.Age}
}

// Player is a deduplicated player with numeric measurements. Nil means the
// value is missing.
type Player struct {
	Name     string
	Team     string
	Position string
	Height   *float64
	Weight   *float64
	Age      *float64
	Flag     int
}

// Measure returns the address of the numeric field called name, or nil if
// name is not a numeric player column.
func (p *Player) Measure(name string) **float64 {
	switch name {
	case "Height":
		return &p.Height
	case "Weight":
		return &p.Weight
	case "Age":
		return &p.Age
	}
	return nil
}

// Text returns the value of the text column called name.
func (p Player) Text(name string) (string, bool) {
	switch name {
	case "Name":
		return p.Name, true
	case "Team":
		return p.Team, true
	case "Position":
		return p.Position, true
	}
	return "", false
}

// Team is one row of the team payroll table. Team is the join key.
type Team struct {
	Team    string
	Payroll *float64
	Wins    *float64
}

// Output is a player joined with its team, plus the derived BMI.
type Output struct {
	Player
	BMI     *float64
	Payroll *float64
	Wins    *float64
}

// Values returns the row in OutputColumns order. Missing numbers are nil.
func (o Output) Values() []any {
	return []any{
		o.Name, o.Team, o.Position,
		value(o.Height), value(o.Weight), value(o.Age),
		value(o.BMI), value(o.Payroll), value(o.Wins),
	}
}

// FieldError reports a cell that could not be read at the load boundary.
type FieldError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: column %s: value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// FormatFloat renders a measurement the way the outputs print it: shortest
// representation, empty for missing.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func value(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// ParseMeasure converts a normalized cell to a number. A Missing cell is nil;
// anything else that does not parse is an error.
func ParseMeasure(cell string) (*float64, error) {
	if Missing(cell) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}
