// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package portaltest

import (
	"archive/tar"
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonas-p/go-shp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/xuri/excelize/v2"
)

// The sample fixtures below mirror the files served by the portal's own
// client test suite.

// a two-column CSV file with two rows
const SampleCSV = "col1,col2\n1,3\n2,4\n"

// a GeoJSON feature collection with two named points
const SampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"location": "p1"}, "geometry": {"type": "Point", "coordinates": [1, 1]}},
    {"type": "Feature", "properties": {"location": "p2"}, "geometry": {"type": "Point", "coordinates": [2, 2]}}
  ]
}`

// a JSON document with two top-level keys
const SampleJSON = `{"key1": "hello", "key2": "world"}`

// a text file with two lines
const SampleTXT = "hello\nworld"

// a stored (uncompressed) RAR 4 archive holding sample_csv.csv (SampleCSV)
// and sample_txt.txt (SampleTXT); no Go library writes RAR archives
//
//go:embed testdata/sample.rar
var SampleRAR []byte

// names of the members of SampleRAR, in archive order
var SampleRARMembers = []string{"sample_csv.csv", "sample_txt.txt"}

// a file inside an archive
type Member struct {
	Name string
	Data []byte
}

// a spreadsheet worksheet
type Sheet struct {
	Name string
	Rows [][]any
}

// the single-sheet workbook matching SampleCSV
var SampleSheet = Sheet{
	Name: "Sheet1",
	Rows: [][]any{
		{"col1", "col2"},
		{1, 3},
		{2, 4},
	},
}

// a line feature written to a shapefile
type LineFeature struct {
	Name   string
	Points [][2]float64
}

// the subway lines written to the sample shapefile bundle
var SampleLines = []LineFeature{
	{Name: "Line 1", Points: [][2]float64{{-79.39, 43.64}, {-79.38, 43.67}}},
	{Name: "Line 2", Points: [][2]float64{{-79.53, 43.64}, {-79.26, 43.73}}},
}

// returns a zip archive holding the given members, in order
func ZipBytes(members ...Member) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, member := range members {
		f, err := w.Create(member.Name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(member.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// returns a gzip stream holding a single file with the given name
func GzipBytes(name string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Name = name
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// returns a gzipped tarball holding the given members, in order
func TarGzBytes(members ...Member) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, member := range members {
		err := tw.WriteHeader(&tar.Header{
			Name:     member.Name,
			Mode:     0644,
			Size:     int64(len(member.Data)),
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		})
		if err != nil {
			return nil, err
		}
		if _, err := tw.Write(member.Data); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// returns an Excel workbook (xlsx layout) holding the given sheets, in order
func WorkbookBytes(sheets ...Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, err
		}
		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				return nil, err
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// returns the .shp, .shx, and .dbf members of a polyline shapefile with the
// given base name, one feature per line with a NAME attribute
func ShapefileMembers(base string, lines ...LineFeature) ([]Member, error) {
	dir, err := os.MkdirTemp("", "shapefile-fixture-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	shpPath := filepath.Join(dir, base+".shp")
	w, err := shp.Create(shpPath, shp.POLYLINE)
	if err != nil {
		return nil, err
	}
	if err := w.SetFields([]shp.Field{shp.StringField("NAME", 32)}); err != nil {
		w.Close()
		return nil, err
	}
	for i, line := range lines {
		points := make([]shp.Point, len(line.Points))
		for j, p := range line.Points {
			points[j] = shp.Point{X: p[0], Y: p[1]}
		}
		// Write returns the record index and reports no errors
		w.Write(shp.NewPolyLine([][]shp.Point{points}))
		if err := w.WriteAttribute(i, 0, line.Name); err != nil {
			w.Close()
			return nil, err
		}
	}
	w.Close()

	// the writer names its attribute table "<base>dbf", without the dot
	undotted := filepath.Join(dir, base+"dbf")
	if _, err := os.Stat(undotted); err == nil {
		if err := os.Rename(undotted, filepath.Join(dir, base+".dbf")); err != nil {
			return nil, err
		}
	}

	members := make([]Member, 0, 3)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		data, err := os.ReadFile(filepath.Join(dir, base+ext))
		if err != nil {
			return nil, fmt.Errorf("Shapefile sidecar %s missing: %s", ext, err)
		}
		members = append(members, Member{Name: base + ext, Data: data})
	}
	return members, nil
}

// writes the given bytes to a file named name inside dir, returning its path
func WriteFile(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// returns true if dir holds no entries (or doesn't exist)
func IsEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return os.IsNotExist(err)
	}
	return len(entries) == 0
}
