package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// table is a fully-read tabular file: cleaned headers plus raw string rows.
type table struct {
	headers []string
	rows    [][]string
}

// readTable reads the whole file, dispatching on extension. CSV is the
// default; .xlsx/.xls go through excelize (first sheet only).
func readTable(r io.Reader, name string) (*table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return readExcel(r)
	default:
		return readCSV(r)
	}
}

func readCSV(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return &table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := &table{headers: cleanHeaders(headers)}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func readExcel(r io.Reader) (*table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &table{}, nil
	}
	return &table{headers: cleanHeaders(rows[0]), rows: rows[1:]}, nil
}

// cleanHeaders trims whitespace and strips stray quotes from column names.
// Names are otherwise kept verbatim; on a header collision the first
// occurrence wins when rows are mapped.
func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		h = strings.ReplaceAll(h, `"`, "")
		out[i] = h
	}
	return out
}
