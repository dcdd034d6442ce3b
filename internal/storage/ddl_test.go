package storage

import (
	"context"
	"strings"
	"testing"

	"rosterclean/internal/roster"
)

func TestEnsureTable_UsesRegisteredBuilder(t *testing.T) {
	t.Parallel()

	RegisterDDL("fake-ddl", func(td TableDef) (string, error) {
		return CreateTableSQL(td, func(string) string { return "ANY" })
	})
	repo := &fakeRepo{}
	td := TableDef{FQN: "main.t", Columns: []ColumnDef{{Name: "a", Type: "text"}, {Name: `b"q`, Type: "float", Nullable: true}}}
	if err := EnsureTable(context.Background(), "fake-ddl", repo, td); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS \"main\".\"t\" (\n  \"a\" ANY NOT NULL,\n  \"b\"\"q\" ANY\n);"
	if len(repo.execs) != 1 || repo.execs[0] != want {
		t.Fatalf("execs = %q\nwant %q", repo.execs, want)
	}

	if err := EnsureTable(context.Background(), "no-such-kind", repo, td); err == nil {
		t.Fatalf("expected error for unregistered kind")
	}
	if _, err := BuildDDL("fake-ddl", TableDef{FQN: "t"}); err == nil {
		t.Fatalf("expected error for table without columns")
	}
}

func TestArchiveRows(t *testing.T) {
	t.Parallel()

	td := ArchiveTable("final_output")
	if got := strings.Join(td.ColumnNames(), ","); got != "run_id,name,team,position,height,weight,age,bmi,payroll,wins" {
		t.Fatalf("columns = %s", got)
	}

	rows := ArchiveRows("run-1", []roster.Output{{
		Player: roster.Player{Name: "A", Position: "", Height: roster.Float(70)},
		Wins:   roster.Float(50),
	}})
	if len(rows) != 1 || len(rows[0]) != len(td.Columns) {
		t.Fatalf("rows = %v", rows)
	}
	r := rows[0]
	if r[0] != "run-1" || r[1] != "A" || r[2] != nil || r[3] != nil || r[4] != 70.0 || r[5] != nil || r[9] != 50.0 {
		t.Fatalf("row = %#v", r)
	}
}
