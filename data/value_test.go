package data

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestFrameAppendPadsRows(t *testing.T) {
	assert := assert.New(t)
	f := NewFrame("a", "b", "c")
	f.Append(1, 2)
	f.Append(1, 2, 3, 4)
	assert.Equal(2, f.NumRows())
	assert.Equal([]any{1, 2, nil}, f.Rows[0])
	assert.Equal([]any{1, 2, 3}, f.Rows[1])
}

func TestFrameColumn(t *testing.T) {
	assert := assert.New(t)
	f := NewFrame("col1", "col2")
	f.Append(int64(1), int64(3))
	f.Append(int64(2), int64(4))
	col, found := f.Column("col2")
	assert.True(found)
	assert.Equal([]any{int64(3), int64(4)}, col)
	_, found = f.Column("col3")
	assert.False(found)
	assert.Equal(-1, f.Index("col3"))
	assert.Equal([]map[string]any{
		{"col1": int64(1), "col2": int64(3)},
		{"col1": int64(2), "col2": int64(4)},
	}, f.Records())
}

func TestFrameMarshalsGeometryAsGeoJSON(t *testing.T) {
	assert := assert.New(t)
	f := NewFrame("location", "geometry")
	f.Append("p1", orb.Point{1, 1})
	b, err := json.Marshal(f)
	assert.Nil(err)
	assert.JSONEq(`{"columns":["location","geometry"],"rows":[["p1",{"type":"Point","coordinates":[1,1]}]]}`, string(b))
}

func TestWorkbookPreservesSheetOrder(t *testing.T) {
	assert := assert.New(t)
	w := NewWorkbook()
	assert.Nil(w.Add("zeta", NewFrame("a")))
	assert.Nil(w.Add("alpha", NewFrame("b")))
	assert.NotNil(w.Add("zeta", NewFrame("c")))
	assert.Equal([]string{"zeta", "alpha"}, w.Names)
	sheet, found := w.Sheet("alpha")
	assert.True(found)
	assert.Equal([]string{"b"}, sheet.Columns)
}

func TestMembersMarshalWithKinds(t *testing.T) {
	assert := assert.New(t)
	m := Members{
		"notes.txt": Lines{"hello", "world"},
		"data.json": Tree{Root: map[string]any{"key": "value"}},
	}
	assert.Equal([]string{"data.json", "notes.txt"}, m.Names())
	b, err := json.Marshal(m)
	assert.Nil(err)
	assert.JSONEq(`{
		"notes.txt": {"kind": "lines", "value": ["hello", "world"]},
		"data.json": {"kind": "tree", "value": {"key": "value"}}
	}`, string(b))
}

func TestInferColumnTypes(t *testing.T) {
	assert := assert.New(t)
	f := NewFrame("ints", "floats", "strings", "mixed", "skipped", "empty")
	f.Append("1", "1.5", "a", "1", "2", "")
	f.Append("2", "2", "b", "x", "3", "")
	f.Append("", "", "", "", "", nil)
	InferColumnTypes(f, "skipped")
	assert.Equal([]any{int64(1), 1.5, "a", "1", "2", ""}, f.Rows[0])
	assert.Equal([]any{int64(2), 2.0, "b", "x", "3", ""}, f.Rows[1])
	assert.Equal([]any{"", "", "", "", "", nil}, f.Rows[2])
}
