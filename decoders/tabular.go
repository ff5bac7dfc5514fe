package decoders

import (
	"fmt"
	"strings"

	"github.com/frictionlessdata/tableschema-go/csv"

	"github.com/opendatato/opendatato/data"
)

// byte order mark some portals prepend to their CSV exports
const utf8BOM = "\ufeff"

// reads a delimited text file whose first row holds the column names
func decodeCSV(path string) (data.Value, error) {
	table, err := csv.NewTable(csv.FromFile(path), csv.LoadHeaders())
	if err != nil {
		return nil, err
	}
	iter, err := table.Iter()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	rows := make([][]string, 0)
	for iter.Next() {
		// the iterator yields an empty row when the header is the last line
		if row := iter.Row(); len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	headers := table.Headers()
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return frameFromRows(headers, rows), nil
}

// builds a frame from string rows, padding short rows with empty cells and
// naming any columns beyond the header, then infers numeric column types
func frameFromRows(headers []string, rows [][]string) *data.Frame {
	columns := make([]string, len(headers))
	copy(columns, headers)
	for _, row := range rows {
		for len(columns) < len(row) {
			columns = append(columns, fmt.Sprintf("Unnamed: %d", len(columns)))
		}
	}
	frame := data.NewFrame(columns...)
	for _, row := range rows {
		cells := make([]any, len(columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		frame.Append(cells...)
	}
	data.InferColumnTypes(frame)
	return frame
}
