package archives

import (
	"io"

	"github.com/nwaples/rardecode/v2"
)

type rarExtractor struct{}

func (rarExtractor) Extract(src, dest string) error {
	reader, err := rardecode.OpenReader(src)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if header.IsDir {
			if err := writeDir(dest, header.Name); err != nil {
				return err
			}
			continue
		}
		if err := writeMember(dest, header.Name, reader); err != nil {
			return err
		}
	}
}
