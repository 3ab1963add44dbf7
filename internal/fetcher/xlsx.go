package fetcher

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// XLSXOptions configures the workbook reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // number of header rows to skip
}

// PayTableOptions locates the area code and value columns inside an
// earnings workbook such as ASHE table 8.
type PayTableOptions struct {
	XLSXOptions
	CodeColumn  int // column holding the GSS area code
	ValueColumn int // column holding the median pay figure
}

// ReadXLSX reads a workbook sheet and returns all rows as string slices.
func ReadXLSX(path string, opts XLSXOptions) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}

	return rows, nil
}

// ReadPayTable extracts median pay by area code from an earnings workbook.
// Rows whose code column is empty or whose value does not parse as a number
// (the ONS marks suppressed cells with "x" or ":") are skipped.
func ReadPayTable(path string, opts PayTableOptions) (map[string]float64, error) {
	rows, err := ReadXLSX(path, opts.XLSXOptions)
	if err != nil {
		return nil, err
	}

	pay := make(map[string]float64)
	skipped := 0
	for _, row := range rows {
		code, value, ok := payRow(row, opts)
		if !ok {
			skipped++
			continue
		}
		pay[code] = value
	}

	if len(pay) == 0 {
		return nil, eris.Errorf("xlsx: no pay rows found in %s", path)
	}
	if skipped > 0 {
		zap.L().Debug("xlsx: skipped unusable pay rows",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return pay, nil
}

func payRow(row []string, opts PayTableOptions) (string, float64, bool) {
	if opts.CodeColumn >= len(row) || opts.ValueColumn >= len(row) {
		return "", 0, false
	}
	code := strings.TrimSpace(row[opts.CodeColumn])
	if code == "" {
		return "", 0, false
	}
	raw := strings.ReplaceAll(strings.TrimSpace(row[opts.ValueColumn]), ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, false
	}
	return code, value, true
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
