package archives

import (
	"github.com/klauspost/compress/zip"
)

type zipExtractor struct{}

func (zipExtractor) Extract(src, dest string) error {
	reader, err := zip.OpenReader(src)
	if reader != nil {
		defer reader.Close()
	}
	if err != nil {
		return err
	}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			if err := writeDir(dest, file.Name); err != nil {
				return err
			}
			continue
		}
		contents, err := file.Open()
		if err != nil {
			return err
		}
		err = writeMember(dest, file.Name, contents)
		contents.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
