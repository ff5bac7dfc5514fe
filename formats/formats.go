// Package formats enumerates the content kinds understood by the resource
// retrieval machinery and maps portal format labels and file extensions onto
// them.
package formats

import (
	"path/filepath"
	"strings"
)

// Kind identifies a terminal content type (decodable as-is) or a container
// type (extracted before its members are decoded).
type Kind int

const (
	Unknown Kind = iota

	// terminal kinds
	CSV
	XLS
	XLSX
	XLSM
	GeoJSON
	JSON
	TXT

	// a zipped shapefile bundle (.shp plus sidecar files); as an archive
	// member, the .shp file itself
	SHP

	// container kinds
	ZIP
	GZ
	RAR
)

var kindLabels = map[Kind]string{
	CSV:     "csv",
	XLS:     "xls",
	XLSX:    "xlsx",
	XLSM:    "xlsm",
	GeoJSON: "geojson",
	JSON:    "json",
	TXT:     "txt",
	SHP:     "shp",
	ZIP:     "zip",
	GZ:      "gz",
	RAR:     "rar",
}

var labelKinds map[string]Kind

func init() {
	labelKinds = make(map[string]Kind, len(kindLabels))
	for kind, label := range kindLabels {
		labelKinds[label] = kind
	}
}

// String returns the lower-case label (and file extension, without the dot)
// for the kind.
func (k Kind) String() string {
	if label, found := kindLabels[k]; found {
		return label
	}
	return "unknown"
}

// Extension returns the file extension used for temporary files holding
// content of this kind, e.g. ".csv".
func (k Kind) Extension() string {
	if k == Unknown {
		return ""
	}
	return "." + k.String()
}

// IsTerminal is true for kinds that are decoded directly from a single file.
func (k Kind) IsTerminal() bool {
	switch k {
	case CSV, XLS, XLSX, XLSM, GeoJSON, JSON, TXT:
		return true
	}
	return false
}

// IsContainer is true for archive kinds whose members are extracted first.
func (k Kind) IsContainer() bool {
	switch k {
	case ZIP, GZ, RAR:
		return true
	}
	return false
}

// IsSpreadsheet is true for the spreadsheet variants.
func (k Kind) IsSpreadsheet() bool {
	return k == XLS || k == XLSX || k == XLSM
}

// IsDecodable is true for kinds with a decoder: the terminal kinds plus
// shapefiles.
func (k Kind) IsDecodable() bool {
	return k.IsTerminal() || k == SHP
}

// Parse maps a portal format label (e.g. "CSV", "geojson", " .Zip ") onto a
// kind. Matching is case-insensitive; surrounding whitespace and a leading
// dot are ignored. Unrecognized labels yield Unknown.
func Parse(label string) Kind {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.TrimPrefix(label, ".")
	if kind, found := labelKinds[label]; found {
		return kind
	}
	return Unknown
}

// FromFileName derives a kind from the extension of the given file name.
func FromFileName(name string) Kind {
	ext := filepath.Ext(name)
	if ext == "" {
		return Unknown
	}
	return Parse(ext)
}
