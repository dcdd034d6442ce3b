package roster

import "strings"

// missingMarkers are the cell values read as missing, in addition to an empty
// cell. They match the default NA markers of common CSV readers.
var missingMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// Missing reports whether cell marks a missing value: empty after trimming,
// one of the NA markers, or any spelling of NaN that strconv accepts.
func Missing(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "nan") {
		return true
	}
	_, ok := missingMarkers[s]
	return ok
}

// Present reports whether cell holds a value.
func Present(cell string) bool { return !Missing(cell) }

// Flag classifies a row by completeness: 1 when both values are present,
// 0 otherwise. Both sides are checked the same way.
func Flag(first, second string) int {
	if Present(first) && Present(second) {
		return 1
	}
	return 0
}

// BMI computes weight / height² × 703 (pounds and inches). A zero height
// yields 0.
func BMI(weight, height float64) float64 {
	if height == 0 {
		return 0
	}
	return weight / (height * height) * 703
}

// PlayerBMI returns the BMI of p, or nil when height or weight is missing.
func PlayerBMI(p Player) *float64 {
	if p.Height == nil || p.Weight == nil {
		return nil
	}
	return Float(BMI(*p.Weight, *p.Height))
}
