package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store keeps uploaded file bytes in a single flat directory, addressed by
// their original filename. A second upload under the same name overwrites the
// first, which is part of the documented contract.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Path resolves a filename inside the upload directory. Only the base name is
// used, so path traversal in a request cannot escape the directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *Store) Save(name string, src io.Reader) error {
	dst, err := os.Create(s.Path(name))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return dst.Close()
}

func (s *Store) Remove(name string) error {
	return os.Remove(s.Path(name))
}

func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// List returns the names of all files in the upload directory in lexical
// order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
