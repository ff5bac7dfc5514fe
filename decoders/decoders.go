// Package decoders turns files of each terminal kind into normalized values.
// Every decodable kind is bound to exactly one Decoder; supporting a new
// format means adding a kind and registering its decoder here.
package decoders

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/opendatato/opendatato/data"
	"github.com/opendatato/opendatato/formats"
	"github.com/opendatato/opendatato/portal"
)

// A Decoder reads the file at the given path.
type Decoder interface {
	Decode(path string) (data.Value, error)
}

// DecoderFunc adapts an ordinary function to the Decoder interface.
type DecoderFunc func(path string) (data.Value, error)

func (f DecoderFunc) Decode(path string) (data.Value, error) {
	return f(path)
}

var registry = map[formats.Kind]Decoder{
	formats.CSV:     DecoderFunc(decodeCSV),
	formats.XLS:     DecoderFunc(decodeXLS),
	formats.XLSX:    DecoderFunc(decodeExcel),
	formats.XLSM:    DecoderFunc(decodeExcel),
	formats.GeoJSON: DecoderFunc(decodeGeoJSON),
	formats.JSON:    DecoderFunc(decodeJSON),
	formats.TXT:     DecoderFunc(decodeText),
	formats.SHP:     DecoderFunc(decodeShapefile),
}

// Supports returns true if a decoder is registered for the given kind.
func Supports(kind formats.Kind) bool {
	_, found := registry[kind]
	return found
}

// Decode reads the file at path as the given kind. Failures are reported as
// DecodeErrors.
func Decode(path string, kind formats.Kind) (value data.Value, err error) {
	decoder, found := registry[kind]
	if !found {
		return nil, &portal.DecodeError{
			File: filepath.Base(path),
			Kind: kind.String(),
			Err:  fmt.Errorf("no decoder is registered for this kind"),
		}
	}
	slog.Debug(fmt.Sprintf("Decoding %s as %s", path, kind))

	// some of the binary format readers panic on malformed input
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &portal.DecodeError{
				File: filepath.Base(path),
				Kind: kind.String(),
				Err:  fmt.Errorf("%v", r),
			}
		}
	}()

	value, err = decoder.Decode(path)
	if err != nil {
		return nil, &portal.DecodeError{
			File: filepath.Base(path),
			Kind: kind.String(),
			Err:  err,
		}
	}
	return value, nil
}
