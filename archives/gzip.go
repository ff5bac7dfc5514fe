package archives

import (
	"archive/tar"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// A gzip archive holds either a single compressed file or a tarball. Tarballs
// are unpacked member by member; a single file is named after the name in the
// gzip header or, failing that, the archive's name without its .gz suffix.
type gzipExtractor struct{}

// offset and value of the magic string in a POSIX tar header
const (
	tarMagicOffset = 257
	tarMagic       = "ustar"
)

func (gzipExtractor) Extract(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	stream := bufio.NewReaderSize(gz, 1024)
	header, err := stream.Peek(tarMagicOffset + len(tarMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return err
	}
	if len(header) == tarMagicOffset+len(tarMagic) &&
		bytes.Equal(header[tarMagicOffset:], []byte(tarMagic)) {
		return extractTar(stream, dest)
	}

	name := filepath.Base(gz.Header.Name)
	if gz.Header.Name == "" || name == "." || name == string(filepath.Separator) {
		name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	return writeMember(dest, name, stream)
}

func extractTar(r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := writeDir(dest, header.Name); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeMember(dest, header.Name, tr); err != nil {
				return err
			}
		default:
			slog.Debug(fmt.Sprintf("Skipping tar entry %s (type %c)", header.Name, header.Typeflag))
		}
	}
}
