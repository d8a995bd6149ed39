package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// Table is a header-indexed CSV document held in memory.
type Table struct {
	columns map[string]int
	Rows    [][]string
}

// ReadTable reads a whole CSV document and checks that every required column
// is present. Header names are matched after trimming spaces and a UTF-8 BOM.
func ReadTable(r io.Reader, required ...string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{columns: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}

	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	t.Rows = rows

	return t, nil
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// Get returns the trimmed cell of row in column, or "" when the column is
// absent or the row is short.
func (t *Table) Get(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
