// Package loader reads holding exports from disk and turns them into
// schema tables. Excel workbooks are the common case; CSV covers the
// brokerages that only export plain text.
package loader

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/karthikyer/fundsight/internal/schema"
)

// ReadExcel loads the first sheet of an Excel workbook as a table.
// The first row is treated as the header; every following row becomes
// a data row. Cells that parse as numbers are stored as float64 so
// that weight inference can distinguish numeric columns from text.
func ReadExcel(path string) (schema.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return schema.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return schema.Table{}, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return schema.Table{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return tableFromRows(rows, path)
}

func tableFromRows(rows [][]string, path string) (schema.Table, error) {
	if len(rows) == 0 {
		return schema.Table{}, fmt.Errorf("%s is empty", path)
	}
	t := schema.Table{Columns: make([]string, len(rows[0]))}
	for i, h := range rows[0] {
		t.Columns[i] = strings.TrimSpace(h)
	}
	for _, raw := range rows[1:] {
		row := make([]any, len(t.Columns))
		empty := true
		for i := range t.Columns {
			if i >= len(raw) {
				continue
			}
			cell := strings.TrimSpace(raw[i])
			if cell == "" {
				continue
			}
			empty = false
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				row[i] = v
			} else {
				row[i] = cell
			}
		}
		if empty {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// DetectMode guesses whether a file is a fund disclosure or a
// brokerage portfolio export from its name. Anything mentioning a
// fund is treated as a fund table.
func DetectMode(path string) schema.Mode {
	base := strings.ToLower(filepath.Base(path))
	if strings.Contains(base, "fund") {
		return schema.ModeFund
	}
	return schema.ModePortfolio
}

// Read dispatches on the file extension: .csv goes through the CSV
// reader, everything else is treated as an Excel workbook.
func Read(path string) (schema.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCSV(path)
	}
	return ReadExcel(path)
}
