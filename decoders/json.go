package decoders

import (
	"os"

	json "github.com/goccy/go-json"

	"github.com/opendatato/opendatato/data"
)

// reads a JSON document, returning the parsed tree as-is
func decodeJSON(path string) (data.Value, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root any
	if err := json.Unmarshal(contents, &root); err != nil {
		return nil, err
	}
	return data.Tree{Root: root}, nil
}
