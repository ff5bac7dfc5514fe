// Package archives extracts zip, gzip, and rar archives into directories.
// The container kind is always the one declared by the caller; archive bytes
// are never sniffed to choose an extractor.
package archives

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opendatato/opendatato/formats"
	"github.com/opendatato/opendatato/portal"
	"github.com/opendatato/opendatato/scratch"
)

// An Extractor unpacks the archive at src into the existing directory dest.
type Extractor interface {
	Extract(src, dest string) error
}

// extractors for each supported container kind
var extractors = map[formats.Kind]Extractor{
	formats.ZIP: zipExtractor{},
	formats.GZ:  gzipExtractor{},
	formats.RAR: rarExtractor{},
}

// Supports returns true if an extractor is registered for the given kind.
func Supports(kind formats.Kind) bool {
	_, found := extractors[kind]
	return found
}

// Extract unpacks the archive at src into dest using the extractor for the
// declared container kind. All failures are reported as ExtractionErrors.
func Extract(src string, kind formats.Kind, dest string) error {
	extractor, found := extractors[kind]
	if !found {
		return &portal.ExtractionError{
			Archive: filepath.Base(src),
			Kind:    kind.String(),
			Message: "unsupported container kind",
		}
	}
	slog.Debug(fmt.Sprintf("Extracting %s archive %s", kind, src))
	if err := extractor.Extract(src, dest); err != nil {
		if _, ok := err.(*portal.ExtractionError); ok {
			return err
		}
		return &portal.ExtractionError{
			Archive: filepath.Base(src),
			Kind:    kind.String(),
			Err:     err,
		}
	}
	return nil
}

// ExtractToScratch unpacks the archive at src into a new temporary directory
// under root. If extraction fails, the directory is removed before the error
// is returned; otherwise the caller owns the directory and must Close it.
func ExtractToScratch(src string, kind formats.Kind, root string) (*scratch.Dir, error) {
	dir, err := scratch.NewDir(root, "extracted-*")
	if err != nil {
		return nil, err
	}
	if err := Extract(src, kind, dir.Path()); err != nil {
		dir.Close()
		return nil, err
	}
	return dir, nil
}

// directory macOS adds to zip archives for resource forks
const macResourceDir = "__MACOSX"

// Members returns the slash-separated paths (relative to dir) of every regular
// file beneath dir, sorted. macOS resource forks ("__MACOSX/" entries and
// "._" AppleDouble files) are not members.
func Members(dir string) ([]string, error) {
	members := make([]string, 0)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == macResourceDir {
			return filepath.SkipDir
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), "._") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		members = append(members, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	return members, nil
}

// resolves an archive member name to a location within dest, rejecting names
// that would escape it
func memberPath(dest, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	if filepath.IsAbs(clean) || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("member '%s' would be written outside the extraction directory", name)
	}
	return filepath.Join(dest, clean), nil
}

// creates the directory for the named member
func writeDir(dest, name string) error {
	path, err := memberPath(dest, name)
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0755)
}

// writes the contents of the named member
func writeMember(dest, name string, r io.Reader) error {
	path, err := memberPath(dest, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
