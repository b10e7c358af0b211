package lookup

import (
	"encoding/csv"
	"io"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

const tableDelimiter = ';'

type tableRow struct {
	line   int
	values []string
}

// readTable reads a delimiter-separated table and returns the requested
// columns of every data row, in the order given.
func readTable(r io.Reader, columns ...string) ([]tableRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = tableDelimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrTableEmpty
	}
	if err != nil {
		return nil, crerr.Wrapf(ErrMalformedRow, "read header: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[name] = i
	}

	positions := make([]int, 0, len(columns))
	for _, col := range columns {
		pos, ok := index[col]
		if !ok {
			return nil, crerr.Wrapf(ErrMissingColumn, "column %q", col)
		}
		positions = append(positions, pos)
	}

	var out []tableRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, crerr.Wrapf(ErrMalformedRow, "%v", err)
		}
		line, _ := reader.FieldPos(0)

		values := make([]string, len(positions))
		for i, pos := range positions {
			if pos >= len(record) {
				return nil, crerr.Wrapf(ErrMalformedRow, "line %d: expected column %q", line, columns[i])
			}
			values[i] = strings.TrimSpace(record[pos])
		}
		out = append(out, tableRow{line: line, values: values})
	}

	if len(out) == 0 {
		return nil, ErrTableEmpty
	}

	return out, nil
}
