package notebook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// fileMode is the permission of written notebooks.
const fileMode = 0o644

// ErrNotFound is returned by Load when the notebook file does not exist.
var ErrNotFound = errors.New("notebook not found")

// Store reads and writes notebook files.
type Store struct {
	fs afero.Fs
}

// NewStore creates a Store on fs. If fs is nil, uses the OS filesystem.
func NewStore(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs}
}

// Fs returns the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Load reads and parses the notebook at path.
func (s *Store) Load(path string) (*Notebook, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading notebook %s: %w", path, err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing notebook %s: %w", path, err)
	}
	return nb, nil
}

// Write serializes nb and writes it to path atomically.
// The destination directory must exist.
func (s *Store) Write(path string, nb *Notebook) error {
	data, err := Marshal(nb)
	if err != nil {
		return fmt.Errorf("serializing notebook: %w", err)
	}
	return s.WriteBytes(path, data)
}

// WriteBytes writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func (s *Store) WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := afero.TempFile(s.fs, dir, ".tmp-*.ipynb")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = s.fs.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := s.fs.Chmod(tmpPath, fileMode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// EnsureDir creates dir and its parents when missing.
func (s *Store) EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}
