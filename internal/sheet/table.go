// Package sheet provides the tabular event source: fetching the published
// CSV export (with HTTP caching) and parsing it into an in-memory Table.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// Row is one table row keyed by column name. Missing cells are "".
type Row map[string]string

// Get returns the raw cell value for a column ("" when absent).
func (r Row) Get(column string) string {
	return r[column]
}

// Table is an ordered sequence of rows with a known header.
type Table struct {
	Columns []string
	Rows    []Row
}

// ParseTable parses a CSV payload (first record is the header) into a Table.
// Short records are tolerated: cells beyond a record's length are simply
// absent. An empty payload or a payload without a header is an error.
func ParseTable(body []byte) (*Table, error) {
	if len(body) == 0 {
		return nil, errors.New("empty CSV body")
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1 // header and rows may disagree; handled below
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("CSV has no header row")
	}

	header := records[0]
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}
