package report

import (
	"reflect"
	"testing"

	"rosterclean/internal/roster"
)

func TestCountBy(t *testing.T) {
	t.Parallel()

	players := []roster.Player{
		{Name: "A", Position: "SF"},
		{Name: "B", Position: "PG"},
		{Name: "C", Position: "SF"},
		{Name: "D", Position: ""},
		{Name: "E", Position: "C"},
		{Name: "F", Position: "SF"},
	}
	got, err := CountBy(players, "Position")
	if err != nil {
		t.Fatalf("CountBy: %v", err)
	}
	want := []Count{{"C", 1}, {"PG", 1}, {"SF", 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CountBy = %+v, want %+v", got, want)
	}
}

func TestCountBy_EmptyAndInvalid(t *testing.T) {
	t.Parallel()

	got, err := CountBy(nil, "Position")
	if err != nil || len(got) != 0 {
		t.Fatalf("CountBy(nil) = %v, %v; want empty", got, err)
	}
	if _, err := CountBy([]roster.Player{{}}, "Height"); err == nil {
		t.Fatalf("expected error for numeric column")
	}
}
