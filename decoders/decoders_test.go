package decoders

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatato/opendatato/data"
	"github.com/opendatato/opendatato/formats"
	"github.com/opendatato/opendatato/portal"
	"github.com/opendatato/opendatato/portaltest"
)

func writeSample(t *testing.T, name string, contents []byte) string {
	path, err := portaltest.WriteFile(t.TempDir(), name, contents)
	require.Nil(t, err)
	return path
}

func TestSupports(t *testing.T) {
	assert := assert.New(t)
	for _, kind := range []formats.Kind{formats.CSV, formats.XLS, formats.XLSX,
		formats.XLSM, formats.GeoJSON, formats.JSON, formats.TXT, formats.SHP} {
		assert.True(Supports(kind), kind.String())
	}
	for _, kind := range []formats.Kind{formats.Unknown, formats.ZIP, formats.GZ, formats.RAR} {
		assert.False(Supports(kind), kind.String())
	}
}

func TestDecodeCSV(t *testing.T) {
	assert := assert.New(t)
	path := writeSample(t, "sample.csv", []byte(portaltest.SampleCSV))
	value, err := Decode(path, formats.CSV)
	assert.Nil(err)
	frame, ok := value.(*data.Frame)
	require.True(t, ok)
	assert.Equal([]string{"col1", "col2"}, frame.Columns)
	assert.Equal([][]any{{int64(1), int64(3)}, {int64(2), int64(4)}}, frame.Rows)
}

func TestDecodeCSVWithByteOrderMark(t *testing.T) {
	path := writeSample(t, "bom.csv", []byte("\ufeffname,count\nbay,1.5\n"))
	value, err := Decode(path, formats.CSV)
	assert.Nil(t, err)
	frame := value.(*data.Frame)
	assert.Equal(t, []string{"name", "count"}, frame.Columns)
	assert.Equal(t, [][]any{{"bay", 1.5}}, frame.Rows)
}

func TestDecodeCSVHeaderOnly(t *testing.T) {
	path := writeSample(t, "header.csv", []byte("a,b\n"))
	value, err := Decode(path, formats.CSV)
	assert.Nil(t, err)
	frame := value.(*data.Frame)
	assert.Equal(t, []string{"a", "b"}, frame.Columns)
	assert.Equal(t, 0, frame.NumRows())
}

func TestDecodeRaggedCSV(t *testing.T) {
	assert := assert.New(t)
	path := writeSample(t, "ragged.csv", []byte("a,b\n1,2,3\n4\n"))
	value, err := Decode(path, formats.CSV)
	assert.Nil(err)
	frame, ok := value.(*data.Frame)
	require.True(t, ok)
	assert.Equal([]string{"a", "b", "Unnamed: 2"}, frame.Columns)
	assert.Equal([][]any{{int64(1), int64(2), int64(3)}, {int64(4), "", ""}}, frame.Rows)
}

func TestDecodeMalformedCSV(t *testing.T) {
	path := writeSample(t, "bad.csv", []byte("a,b\n1,\"2\n"))
	_, err := Decode(path, formats.CSV)
	var decodeErr *portal.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "bad.csv", decodeErr.File)
	assert.Equal(t, "csv", decodeErr.Kind)
}

func TestDecodeSingleSheetWorkbook(t *testing.T) {
	assert := assert.New(t)
	contents, err := portaltest.WorkbookBytes(portaltest.SampleSheet)
	require.Nil(t, err)
	for _, kind := range []formats.Kind{formats.XLSX, formats.XLSM} {
		path := writeSample(t, "sample"+kind.Extension(), contents)
		value, err := Decode(path, kind)
		assert.Nil(err)
		frame, ok := value.(*data.Frame)
		require.True(t, ok)
		assert.Equal([]string{"col1", "col2"}, frame.Columns)
		assert.Equal([][]any{{int64(1), int64(3)}, {int64(2), int64(4)}}, frame.Rows)
	}
}

func TestDecodeMultiSheetWorkbook(t *testing.T) {
	assert := assert.New(t)
	contents, err := portaltest.WorkbookBytes(
		portaltest.SampleSheet,
		portaltest.Sheet{
			Name: "Wards",
			Rows: [][]any{{"ward", "councillor"}, {1, "Crawford"}, {2}},
		},
	)
	require.Nil(t, err)
	path := writeSample(t, "wards.xlsx", contents)
	value, err := Decode(path, formats.XLSX)
	assert.Nil(err)
	wb, ok := value.(*data.Workbook)
	require.True(t, ok)
	assert.Equal([]string{"Sheet1", "Wards"}, wb.Names)
	wards, found := wb.Sheet("Wards")
	assert.True(found)
	assert.Equal([]string{"ward", "councillor"}, wards.Columns)
	assert.Equal([][]any{{int64(1), "Crawford"}, {int64(2), ""}}, wards.Rows)
}

func TestDecodeCorruptSpreadsheets(t *testing.T) {
	for _, kind := range []formats.Kind{formats.XLS, formats.XLSX} {
		path := writeSample(t, "broken"+kind.Extension(), []byte("not a workbook"))
		_, err := Decode(path, kind)
		var decodeErr *portal.DecodeError
		assert.True(t, errors.As(err, &decodeErr), kind.String())
	}
}

func TestDecodeGeoJSON(t *testing.T) {
	assert := assert.New(t)
	path := writeSample(t, "points.geojson", []byte(portaltest.SampleGeoJSON))
	value, err := Decode(path, formats.GeoJSON)
	assert.Nil(err)
	frame, ok := value.(*data.Frame)
	require.True(t, ok)
	assert.Equal([]string{"location", GeometryColumn}, frame.Columns)
	assert.Equal(2, frame.NumRows())
	assert.Equal("p1", frame.Rows[0][0])
	assert.Equal(orb.Point{1, 1}, frame.Rows[0][1])
	assert.Equal(orb.Point{2, 2}, frame.Rows[1][1])
}

func TestDecodeBadGeoJSON(t *testing.T) {
	path := writeSample(t, "bad.geojson", []byte(`{"type": "FeatureCollection", "features": [`))
	_, err := Decode(path, formats.GeoJSON)
	var decodeErr *portal.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestDecodeShapefile(t *testing.T) {
	assert := assert.New(t)
	members, err := portaltest.ShapefileMembers("subway", portaltest.SampleLines...)
	require.Nil(t, err)
	dir := t.TempDir()
	var shpPath string
	for _, member := range members {
		path, err := portaltest.WriteFile(dir, member.Name, member.Data)
		require.Nil(t, err)
		if formats.FromFileName(member.Name) == formats.SHP {
			shpPath = path
		}
	}
	require.NotEmpty(t, shpPath)

	value, err := Decode(shpPath, formats.SHP)
	assert.Nil(err)
	frame, ok := value.(*data.Frame)
	require.True(t, ok)
	assert.Equal([]string{"NAME", GeometryColumn}, frame.Columns)
	assert.Equal(len(portaltest.SampleLines), frame.NumRows())
	for i, line := range portaltest.SampleLines {
		assert.Equal(line.Name, frame.Rows[i][0])
		geometry, ok := frame.Rows[i][1].(orb.LineString)
		assert.True(ok)
		assert.Len(geometry, len(line.Points))
		assert.Equal(orb.Point(line.Points[0]), geometry[0])
	}
}

func TestDecodeShapefileStripsAttributePadding(t *testing.T) {
	members, err := portaltest.ShapefileMembers("padded",
		portaltest.LineFeature{Name: "A", Points: [][2]float64{{0, 0}, {1, 1}}})
	require.Nil(t, err)
	dir := t.TempDir()
	for _, member := range members {
		_, err := portaltest.WriteFile(dir, member.Name, member.Data)
		require.Nil(t, err)
	}
	value, err := Decode(dir+"/padded.shp", formats.SHP)
	require.Nil(t, err)
	frame := value.(*data.Frame)
	require.Equal(t, 1, frame.NumRows())
	assert.Equal(t, "A", frame.Rows[0][0])
	assert.NotContains(t, frame.Rows[0][0], "\x00")
}

func TestDecodeMissingShapefile(t *testing.T) {
	_, err := Decode(t.TempDir()+"/absent.shp", formats.SHP)
	var decodeErr *portal.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "absent.shp", decodeErr.File)
}

func TestDecodeJSON(t *testing.T) {
	path := writeSample(t, "sample.json", []byte(portaltest.SampleJSON))
	value, err := Decode(path, formats.JSON)
	assert.Nil(t, err)
	assert.Equal(t, data.Tree{Root: map[string]any{"key1": "hello", "key2": "world"}}, value)
}

func TestDecodeBadJSON(t *testing.T) {
	path := writeSample(t, "bad.json", []byte(`{"key1": `))
	_, err := Decode(path, formats.JSON)
	var decodeErr *portal.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "json", decodeErr.Kind)
}

func TestDecodeText(t *testing.T) {
	assert := assert.New(t)
	path := writeSample(t, "sample.txt", []byte(portaltest.SampleTXT))
	value, err := Decode(path, formats.TXT)
	assert.Nil(err)
	assert.Equal(data.Lines{"hello", "world"}, value)

	path = writeSample(t, "spaced.txt", []byte("first  \r\n\nthird\n"))
	value, err = Decode(path, formats.TXT)
	assert.Nil(err)
	assert.Equal(data.Lines{"first", "", "third"}, value)

	path = writeSample(t, "empty.txt", []byte{})
	value, err = Decode(path, formats.TXT)
	assert.Nil(err)
	assert.Equal(data.Lines{}, value)
}

func TestDecodeUnregisteredKind(t *testing.T) {
	_, err := Decode("archive.zip", formats.ZIP)
	var decodeErr *portal.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "zip", decodeErr.Kind)
}
