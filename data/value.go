// Package data holds the normalized in-memory values produced when a portal
// resource is retrieved and decoded.
package data

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Value is a decoded resource payload. The set of implementations is closed:
// *Frame, Lines, Tree, *Workbook, and Members.
type Value interface {
	// Kind returns a short label for the variant ("frame", "lines", "tree",
	// "workbook", "members")
	Kind() string
	isValue()
}

// Frame is a table with named columns and ordered rows.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// NewFrame creates an empty frame with the given columns.
func NewFrame(columns ...string) *Frame {
	return &Frame{
		Columns: columns,
		Rows:    make([][]any, 0),
	}
}

func (f *Frame) Kind() string { return "frame" }
func (f *Frame) isValue()     {}

// Append adds a row, padding or truncating it to the frame's width.
func (f *Frame) Append(cells ...any) {
	row := make([]any, len(f.Columns))
	copy(row, cells)
	f.Rows = append(f.Rows, row)
}

// NumRows returns the number of rows in the frame.
func (f *Frame) NumRows() int {
	return len(f.Rows)
}

// Index returns the position of the named column, or -1.
func (f *Frame) Index(column string) int {
	for i, c := range f.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column in row order.
func (f *Frame) Column(column string) ([]any, bool) {
	i := f.Index(column)
	if i < 0 {
		return nil, false
	}
	cells := make([]any, len(f.Rows))
	for r, row := range f.Rows {
		cells[r] = row[i]
	}
	return cells, true
}

// Records returns the rows as column-keyed maps.
func (f *Frame) Records() []map[string]any {
	records := make([]map[string]any, len(f.Rows))
	for r, row := range f.Rows {
		record := make(map[string]any, len(f.Columns))
		for i, c := range f.Columns {
			record[c] = row[i]
		}
		records[r] = record
	}
	return records
}

func (f *Frame) MarshalJSON() ([]byte, error) {
	rows := make([][]any, len(f.Rows))
	for r, row := range f.Rows {
		rows[r] = make([]any, len(row))
		for i, cell := range row {
			if g, ok := cell.(orb.Geometry); ok && g != nil {
				rows[r][i] = geojson.NewGeometry(g)
			} else {
				rows[r][i] = cell
			}
		}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}{
		Columns: f.Columns,
		Rows:    rows,
	})
}

// Lines is an ordered sequence of text lines.
type Lines []string

func (l Lines) Kind() string { return "lines" }
func (l Lines) isValue()     {}

// Tree is a structured document (JSON-like) returned exactly as parsed.
type Tree struct {
	Root any
}

func (t Tree) Kind() string { return "tree" }
func (t Tree) isValue()     {}

func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Root)
}

// Workbook maps sheet names to frames, preserving the sheet order of the
// spreadsheet it was read from.
type Workbook struct {
	Names  []string
	Sheets map[string]*Frame
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{
		Names:  make([]string, 0),
		Sheets: make(map[string]*Frame),
	}
}

func (w *Workbook) Kind() string { return "workbook" }
func (w *Workbook) isValue()     {}

// Add appends a sheet to the workbook.
func (w *Workbook) Add(name string, frame *Frame) error {
	if _, found := w.Sheets[name]; found {
		return fmt.Errorf("Duplicate sheet name: %s", name)
	}
	w.Names = append(w.Names, name)
	w.Sheets[name] = frame
	return nil
}

// Sheet returns the frame for the named sheet.
func (w *Workbook) Sheet(name string) (*Frame, bool) {
	frame, found := w.Sheets[name]
	return frame, found
}

func (w *Workbook) MarshalJSON() ([]byte, error) {
	type sheet struct {
		Name  string `json:"name"`
		Frame *Frame `json:"frame"`
	}
	sheets := make([]sheet, len(w.Names))
	for i, name := range w.Names {
		sheets[i] = sheet{Name: name, Frame: w.Sheets[name]}
	}
	return json.Marshal(struct {
		Sheets []sheet `json:"sheets"`
	}{sheets})
}

// Members maps archive member names to their decoded values.
type Members map[string]Value

func (m Members) Kind() string { return "members" }
func (m Members) isValue()     {}

// Names returns the member names in sorted order.
func (m Members) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m Members) MarshalJSON() ([]byte, error) {
	envelopes := make(map[string]Envelope, len(m))
	for name, v := range m {
		envelopes[name] = Wrap(v)
	}
	return json.Marshal(envelopes)
}

// Envelope pairs a value with its kind so that JSON consumers can tell the
// variants apart.
type Envelope struct {
	Kind  string `json:"kind"`
	Value Value  `json:"value"`
}

// Wrap places the given value in an envelope.
func Wrap(v Value) Envelope {
	return Envelope{
		Kind:  v.Kind(),
		Value: v,
	}
}
