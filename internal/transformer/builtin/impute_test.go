package builtin

import (
	"math"
	"testing"

	"rosterclean/internal/roster"
)

func TestImpute_FillsWithMean(t *testing.T) {
	t.Parallel()

	players := []roster.Player{
		{Name: "A", Height: roster.Float(70), Weight: roster.Float(180)},
		{Name: "B", Height: roster.Float(74), Weight: nil},
		{Name: "C", Height: nil, Weight: roster.Float(220)},
		{Name: "D", Height: nil, Weight: nil, Age: nil},
	}
	res, err := Impute{Columns: []string{"Height", "Weight"}}.Apply(players)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if res[0].Column != "Height" || res[0].Mean != 72 || res[0].Filled != 2 {
		t.Fatalf("height result = %+v", res[0])
	}
	if res[1].Column != "Weight" || res[1].Mean != 200 || res[1].Filled != 2 {
		t.Fatalf("weight result = %+v", res[1])
	}

	for _, p := range players {
		if p.Height == nil || p.Weight == nil {
			t.Fatalf("player %s still missing a value", p.Name)
		}
	}
	if *players[2].Height != 72 || *players[3].Weight != 200 {
		t.Fatalf("filled values = %v, %v; want 72, 200", *players[2].Height, *players[3].Weight)
	}
	// Untouched values and untargeted columns stay as they were.
	if *players[1].Height != 74 || players[3].Age != nil {
		t.Fatalf("unexpected change: %+v", players)
	}
}

/*
TestImpute_AllMissingSkipped verifies that a column without any present
value is reported as skipped and left missing rather than filled with NaN.
*/
func TestImpute_AllMissingSkipped(t *testing.T) {
	t.Parallel()

	players := []roster.Player{{Name: "A", Weight: roster.Float(180)}, {Name: "B"}}
	res, err := Impute{Columns: []string{"Height", "Weight"}}.Apply(players)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res[0].Skipped || res[0].Filled != 0 {
		t.Fatalf("height result = %+v, want skipped", res[0])
	}
	for _, p := range players {
		if p.Height != nil {
			t.Fatalf("height should remain missing, got %v", *p.Height)
		}
		if p.Weight == nil || math.IsNaN(*p.Weight) {
			t.Fatalf("weight should be filled")
		}
	}
}

func TestImpute_UnknownColumn(t *testing.T) {
	t.Parallel()

	if _, err := (Impute{Columns: []string{"Name"}}).Apply(nil); err == nil {
		t.Fatalf("expected error for non-numeric column")
	}
}
