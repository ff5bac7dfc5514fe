package decoders

import (
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/opendatato/opendatato/data"
)

// a worksheet's name and its rows of cell text
type sheet struct {
	name string
	rows [][]string
}

// reads an Office Open XML workbook (xlsx or xlsm)
func decodeExcel(path string) (data.Value, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := make([]sheet, 0)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet{name: name, rows: rows})
	}
	return workbookFromSheets(sheets)
}

// reads a legacy BIFF (xls) workbook
func decodeXLS(path string) (data.Value, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	sheets := make([]sheet, 0)
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, []string{})
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, sheet{name: ws.Name, rows: trimTrailingEmptyRows(rows)})
	}
	return workbookFromSheets(sheets)
}

// A workbook with exactly one sheet decodes to that sheet's frame; otherwise
// we return every sheet, in workbook order.
func workbookFromSheets(sheets []sheet) (data.Value, error) {
	frames := make([]*data.Frame, len(sheets))
	for i, s := range sheets {
		if len(s.rows) == 0 {
			frames[i] = data.NewFrame()
		} else {
			frames[i] = frameFromRows(s.rows[0], s.rows[1:])
		}
	}
	if len(frames) == 1 {
		return frames[0], nil
	}
	wb := data.NewWorkbook()
	for i, s := range sheets {
		if err := wb.Add(s.name, frames[i]); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		empty := true
		for _, cell := range last {
			if cell != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}
