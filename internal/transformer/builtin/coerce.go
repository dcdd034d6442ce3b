package builtin

import "rosterclean/internal/roster"

// Coerce converts raw rows to players, parsing Height, Weight and Age. A
// cell that is neither missing nor numeric fails the whole table with a
// *roster.FieldError naming the source line.
func Coerce(in []roster.RawPlayer) ([]roster.Player, error) {
	out := make([]roster.Player, 0, len(in))
	for _, r := range in {
		p := roster.Player{Name: r.Name, Team: r.Team, Position: r.Position, Flag: r.Flag}
		for _, f := range []struct {
			name string
			cell string
			dst  **float64
		}{
			{"Height", r.Height, &p.Height},
			{"Weight", r.Weight, &p.Weight},
			{"Age", r.Age, &p.Age},
		} {
			v, err := roster.ParseMeasure(f.cell)
			if err != nil {
				return nil, &roster.FieldError{Line: r.Line, Column: f.name, Value: f.cell, Err: err}
			}
			*f.dst = v
		}
		out = append(out, p)
	}
	return out, nil
}
