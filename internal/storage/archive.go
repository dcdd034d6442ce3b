package storage

import "rosterclean/internal/roster"

// ArchiveTable is the archive layout for joined output rows. Every row is
// tagged with the run that produced it, so repeated runs accumulate.
func ArchiveTable(fqn string) TableDef {
	return TableDef{
		FQN: fqn,
		Columns: []ColumnDef{
			{Name: "run_id", Type: "text"},
			{Name: "name", Type: "text", Nullable: true},
			{Name: "team", Type: "text", Nullable: true},
			{Name: "position", Type: "text", Nullable: true},
			{Name: "height", Type: "float", Nullable: true},
			{Name: "weight", Type: "float", Nullable: true},
			{Name: "age", Type: "float", Nullable: true},
			{Name: "bmi", Type: "float", Nullable: true},
			{Name: "payroll", Type: "float", Nullable: true},
			{Name: "wins", Type: "float", Nullable: true},
		},
	}
}

// ArchiveRows lays out rows in ArchiveTable column order. Missing text cells
// are stored as NULL.
func ArchiveRows(runID string, rows []roster.Output) [][]any {
	out := make([][]any, 0, len(rows))
	for _, o := range rows {
		vals := o.Values()
		row := make([]any, 0, len(vals)+1)
		row = append(row, runID)
		for _, v := range vals {
			if s, ok := v.(string); ok && s == "" {
				v = nil
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	return out
}
