package data

import (
	"strconv"
	"strings"
)

// InferColumnTypes converts the string cells of each column to int64 if every
// non-empty cell in the column is an integer, or to float64 if every non-empty
// cell is a number. Other columns, empty cells, and any column named in skip
// are left alone.
func InferColumnTypes(f *Frame, skip ...string) {
	for i, column := range f.Columns {
		skipped := false
		for _, s := range skip {
			if s == column {
				skipped = true
				break
			}
		}
		if skipped {
			continue
		}
		inferColumn(f, i)
	}
}

func inferColumn(f *Frame, i int) {
	allInts, allFloats, seen := true, true, false
	for _, row := range f.Rows {
		if row[i] == nil {
			continue
		}
		s, ok := row[i].(string)
		if !ok {
			return
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		seen = true
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			allInts = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allFloats = false
		}
		if !allInts && !allFloats {
			return
		}
	}
	if !seen {
		return
	}
	for _, row := range f.Rows {
		if row[i] == nil {
			continue
		}
		s := strings.TrimSpace(row[i].(string))
		if s == "" {
			continue
		}
		if allInts {
			row[i], _ = strconv.ParseInt(s, 10, 64)
		} else {
			row[i], _ = strconv.ParseFloat(s, 64)
		}
	}
}
