// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// Everything that touches disk (settings, captures, plugin scripts, logs, history) goes through
// API so tests can swap in an in-memory backend.
package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// WriteAtomic writes data next to path and renames it into place, so readers never observe a
// half-written file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if err := backend.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create parent of %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := backend.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	if err := backend.Rename(tmp, path); err != nil {
		_ = backend.Remove(tmp)
		return fmt.Errorf("swap %s: %w", path, err)
	}

	return nil
}

// GacheFs lets gache caches (export history) use the active backend.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return backend.OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return backend.MkdirAll(path, perm)
}
