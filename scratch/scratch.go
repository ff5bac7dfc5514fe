// Package scratch provides temporary files and directories whose lifetime is
// scoped to a single call. Create one, then defer its Close immediately:
//
//	dir, err := scratch.NewDir(root, "resource-*")
//	if err != nil {
//		return err
//	}
//	defer dir.Close()
package scratch

import (
	"log/slog"
	"os"
)

// File is a uniquely named temporary file.
type File struct {
	path   string
	closed bool
}

// NewFile creates an empty temporary file in root (os.TempDir() if root is
// empty) whose name follows the os.CreateTemp pattern rules.
func NewFile(root, pattern string) (*File, error) {
	f, err := os.CreateTemp(root, pattern)
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}
	return &File{path: path}, nil
}

// Path returns the file's location.
func (f *File) Path() string {
	return f.path
}

// Create truncates the file and opens it for writing.
func (f *File) Create() (*os.File, error) {
	return os.Create(f.path)
}

// Close removes the file. Calling it more than once is harmless.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		err = nil
	}
	if err != nil {
		slog.Warn("Couldn't remove temporary file", "path", f.path, "error", err)
	}
	return err
}

// Dir is a uniquely named temporary directory.
type Dir struct {
	path   string
	closed bool
}

// NewDir creates a temporary directory in root (os.TempDir() if root is
// empty) whose name follows the os.MkdirTemp pattern rules.
func NewDir(root, pattern string) (*Dir, error) {
	path, err := os.MkdirTemp(root, pattern)
	if err != nil {
		return nil, err
	}
	return &Dir{path: path}, nil
}

// Path returns the directory's location.
func (d *Dir) Path() string {
	return d.path
}

// Close removes the directory and everything in it. Calling it more than once
// is harmless.
func (d *Dir) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	err := os.RemoveAll(d.path)
	if err != nil {
		slog.Warn("Couldn't remove temporary directory", "path", d.path, "error", err)
	}
	return err
}
