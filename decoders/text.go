package decoders

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/opendatato/opendatato/data"
)

// reads a text file line by line, stripping trailing whitespace from each
func decodeText(path string) (data.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make(data.Lines, 0)
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			lines = append(lines, strings.TrimRightFunc(line, unicode.IsSpace))
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
