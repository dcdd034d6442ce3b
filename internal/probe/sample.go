package probe

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"rosterclean/internal/roster"
	"rosterclean/internal/transformer/builtin"
)

// candidates are the delimiters detectDelimiter chooses from, in order of
// preference on ties.
var candidates = []rune{',', ';', '\t', '|'}

// readHead returns up to n bytes of r, cut at the last newline when the
// source is longer so that no half record is sampled.
func readHead(r io.Reader, n int) ([]byte, bool, error) {
	lr := &io.LimitedReader{R: r, N: int64(n) + 1}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(lr); err != nil {
		return nil, false, err
	}
	data := buf.Bytes()
	if len(data) <= n {
		return data, false, nil
	}
	data = data[:n]
	if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
		data = data[:i+1]
	}
	return data, true, nil
}

// decodeDelimiter converts a user-supplied string into a single rune delimiter.
func decodeDelimiter(s string) rune {
	if s == "" {
		return ','
	}
	if s == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// detectDelimiter picks the candidate that splits the header into the most
// fields while keeping every sampled row at the header's width.
func detectDelimiter(data []byte) rune {
	best, bestWidth := ',', 0
	for _, d := range candidates {
		r := newReader(data, d)
		header, err := r.Read()
		if err != nil || len(header) < 2 {
			continue
		}
		consistent := true
		for i := 0; i < 20; i++ {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil || len(rec) != len(header) {
				consistent = false
				break
			}
		}
		if consistent && len(header) > bestWidth {
			best, bestWidth = d, len(header)
		}
	}
	return best
}

func newReader(data []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\uFEFF"))))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r
}

// readSample parses data best-effort: malformed lines are skipped, rows wider
// than width are counted and skipped, short rows are padded the way the
// loader pads them. Cells are normalized like the loader normalizes them.
func readSample(data []byte, delim rune, width int) (headers []string, rows [][]string, wide int) {
	r := newReader(data, delim)
	var norm builtin.Normalize
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil, nil, 0
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		headers = make([]string, len(rec))
		for i, h := range rec {
			headers[i] = norm.Text(h)
		}
		break
	}
	width = max(width, len(headers))
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(rec) > width {
			wide++
			continue
		}
		row := make([]string, width)
		for i, c := range rec {
			row[i] = norm.Text(c)
		}
		rows = append(rows, row)
	}
	return headers, rows, wide
}

type columnType struct {
	kind    string
	empty   int
	example string // first value that is not numeric
}

// inferTypes classifies each column as integer, real, text or empty. A
// column is numeric only if every present cell parses the way the loader
// parses measurements.
func inferTypes(rows [][]string, width int) []columnType {
	out := make([]columnType, width)
	for i := range out {
		var present, ints int
		numeric := true
		for _, row := range rows {
			v := row[i]
			if v == "" {
				out[i].empty++
				continue
			}
			present++
			if isInt(v) {
				ints++
				continue
			}
			if _, err := roster.ParseMeasure(v); err != nil && numeric {
				numeric = false
				out[i].example = v
			}
		}
		switch {
		case present == 0:
			out[i].kind = "empty"
		case !numeric:
			out[i].kind = "text"
		case ints == present:
			out[i].kind = "integer"
		default:
			out[i].kind = "real"
		}
	}
	return out
}

// isInt requires a signed base-10 integer that fits in int64.
func isInt(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}
