package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"rosterclean/internal/roster"
)

// Format is an output file format.
type Format string

const (
	FormatXLSX    Format = "xlsx"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// sheet is the worksheet every xlsx output is written to.
const sheet = "Sheet1"

// FormatFromName picks the format from a file name or object key extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("unsupported output extension %q (want .xlsx, .csv or .parquet)", filepath.Ext(name))
}

// Table is a rectangular result ready to encode. Cells are string, float64,
// int or nil for missing.
type Table struct {
	Header []string
	Rows   [][]any

	// columnar form used for parquet
	parquetRows any
}

type countRow struct {
	Value string `parquet:"value"`
	Count int64  `parquet:"count"`
}

type outputRow struct {
	Name     string   `parquet:"name"`
	Team     string   `parquet:"team"`
	Position string   `parquet:"position"`
	Height   *float64 `parquet:"height"`
	Weight   *float64 `parquet:"weight"`
	Age      *float64 `parquet:"age"`
	BMI      *float64 `parquet:"bmi"`
	Payroll  *float64 `parquet:"payroll"`
	Wins     *float64 `parquet:"wins"`
}

// CountTable lays out a category report as (column, Count).
func CountTable(column string, counts []Count) Table {
	t := Table{Header: []string{column, "Count"}}
	pq := make([]countRow, 0, len(counts))
	for _, c := range counts {
		t.Rows = append(t.Rows, []any{c.Value, c.Count})
		pq = append(pq, countRow{Value: c.Value, Count: int64(c.Count)})
	}
	t.parquetRows = pq
	return t
}

// OutputTable lays out joined rows in roster.OutputColumns order.
func OutputTable(rows []roster.Output) Table {
	t := Table{Header: roster.OutputColumns}
	pq := make([]outputRow, 0, len(rows))
	for _, o := range rows {
		t.Rows = append(t.Rows, o.Values())
		pq = append(pq, outputRow{
			Name: o.Name, Team: o.Team, Position: o.Position,
			Height: o.Height, Weight: o.Weight, Age: o.Age,
			BMI: o.BMI, Payroll: o.Payroll, Wins: o.Wins,
		})
	}
	t.parquetRows = pq
	return t
}

// Encode writes t to w in the given format. No index column is written.
func Encode(w io.Writer, format Format, t Table) error {
	switch format {
	case FormatXLSX:
		return encodeXLSX(w, t)
	case FormatCSV:
		return encodeCSV(w, t)
	case FormatParquet:
		return encodeParquet(w, t)
	}
	return fmt.Errorf("encode: unknown format %q", format)
}

func encodeXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	put := func(row int, cells []any) error {
		for col, v := range cells {
			if v == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, ref, v); err != nil {
				return fmt.Errorf("xlsx: set %s: %w", ref, err)
			}
		}
		return nil
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := put(1, header); err != nil {
		return err
	}
	for i, r := range t.Rows {
		if err := put(i+2, r); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func encodeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	rec := make([]string, len(t.Header))
	for _, r := range t.Rows {
		for i, v := range r {
			rec[i] = cellString(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeParquet(w io.Writer, t Table) error {
	var err error
	switch rows := t.parquetRows.(type) {
	case []countRow:
		err = parquet.Write(w, rows)
	case []outputRow:
		err = parquet.Write(w, rows)
	default:
		return fmt.Errorf("parquet: table has no columnar form")
	}
	if err != nil {
		return fmt.Errorf("parquet: write: %w", err)
	}
	return nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}
