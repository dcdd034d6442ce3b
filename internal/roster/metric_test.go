package roster

import (
	"math"
	"testing"
)

func TestFlag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		first, second string
		want          int
	}{
		{"70", "180", 1},
		{"0", "180", 1},
		{"", "180", 0},
		{"70", "", 0},
		{"", "", 0},
		{"NaN", "180", 0},
		{"70", "NULL", 0},
		{"NA", "N/A", 0},
	}
	for _, tc := range cases {
		if got := Flag(tc.first, tc.second); got != tc.want {
			t.Fatalf("Flag(%q, %q) = %d, want %d", tc.first, tc.second, got, tc.want)
		}
	}
}

func TestMissing(t *testing.T) {
	t.Parallel()

	for _, cell := range []string{"", "  ", "NaN", "nan", "-NaN", "NA", "N/A", "n/a", "#N/A", "<NA>", "NULL", "null", "None", " NaN ", "NAN", "Nan"} {
		if !Missing(cell) || Present(cell) {
			t.Errorf("Missing(%q) = false, want true", cell)
		}
	}
	for _, cell := range []string{"0", "70", "none", "Null", "Nashville", "inf"} {
		if Missing(cell) || !Present(cell) {
			t.Errorf("Missing(%q) = true, want false", cell)
		}
	}
}

func TestBMI(t *testing.T) {
	t.Parallel()

	if got := BMI(180, 0); got != 0 {
		t.Fatalf("BMI(180, 0) = %v, want 0", got)
	}

	got := BMI(180, 70)
	want := 180.0 / (70 * 70) * 703
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("BMI(180, 70) = %v, want %v", got, want)
	}
	if math.Abs(got-25.824489795918367) > 1e-9 {
		t.Fatalf("BMI(180, 70) = %v, want ~25.8245", got)
	}
}

func TestPlayerBMI_Missing(t *testing.T) {
	t.Parallel()

	if got := PlayerBMI(Player{Height: Float(70)}); got != nil {
		t.Fatalf("PlayerBMI with missing weight = %v, want nil", *got)
	}
	got := PlayerBMI(Player{Height: Float(0), Weight: Float(180)})
	if got == nil || *got != 0 {
		t.Fatalf("PlayerBMI with zero height = %v, want 0", got)
	}
}

func TestOutputValues(t *testing.T) {
	t.Parallel()

	o := Output{
		Player:  Player{Name: "A", Team: "T1", Position: "P1", Height: Float(70)},
		Payroll: Float(1000),
	}
	vals := o.Values()
	if len(vals) != len(OutputColumns) {
		t.Fatalf("len(Values) = %d, want %d", len(vals), len(OutputColumns))
	}
	if vals[3] != 70.0 {
		t.Fatalf("Height = %#v, want 70", vals[3])
	}
	if vals[4] != nil || vals[6] != nil || vals[8] != nil {
		t.Fatalf("missing values should be nil: %#v", vals)
	}
	if FormatFloat(Float(25)) != "25" || FormatFloat(nil) != "" {
		t.Fatalf("FormatFloat mismatch")
	}
}

func TestParseMeasure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    *float64
		wantErr bool
	}{
		{"", nil, false},
		{" 70 ", Float(70), false},
		{"72.5", Float(72.5), false},
		{"NaN", nil, false},
		{"NA", nil, false},
		{" null ", nil, false},
		{"None", nil, false},
		{"N/A", nil, false},
		{"six feet", nil, true},
		{"na", nil, true},
	}
	for _, tc := range cases {
		got, err := ParseMeasure(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseMeasure(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("ParseMeasure(%q) = %v, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Fatalf("ParseMeasure(%q) = %v, want %v", tc.in, got, *tc.want)
		}
	}
}
