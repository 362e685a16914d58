// Package ingest reads the intermediate tables handed to the engine by
// surrounding tooling: baseline block metrics, yearly permit tables,
// attribution sources, manual overrides, and scenario definitions.
// CSV and XLSX are supported interchangeably by file extension.
package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/redist-cli/internal/model"
)

// readTable reads a CSV or XLSX file into rows of strings. XLSX reads the
// first sheet.
func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read csv %s", path)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}
	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = strings.TrimSpace(c.Value)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// columns maps lower-cased header names to their indices.
type columns map[string]int

func headerColumns(rows [][]string) (columns, error) {
	if len(rows) == 0 {
		return nil, eris.New("ingest: empty table")
	}
	cols := make(columns, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols, nil
}

// get returns the trimmed cell under the named column, empty when the row
// is short or the column absent.
func (c columns) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (c columns) require(path string, names ...string) error {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return eris.Wrapf(model.ErrDataIntegrity, "%s: missing required column %q", path, name)
		}
	}
	return nil
}

// intPtr parses an optional integer cell; blank means null and returns nil.
func intPtr(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// floatPtr parses an optional real cell; blank means null and returns nil.
func floatPtr(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
