package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

// FileStore keeps one JSON document per slug in a flat directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Load(slug string) ([]byte, error) {
	path, err := f.path(slug)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, model.ErrNotFound
	}
	return data, err
}

// Save writes the document to a temp file in the same directory and renames
// it into place, so readers never observe a partial overwrite.
func (f *FileStore) Save(slug string, doc []byte) error {
	path, err := f.path(slug)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, "."+slug+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FileStore) Exists(slug string) (bool, error) {
	path, err := f.path(slug)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (f *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, ".json"))
	}
	return slugs, nil
}

// path rejects anything that is not a well-formed slug before touching the
// filesystem, so a slug can never escape the data directory.
func (f *FileStore) path(slug string) (string, error) {
	if slug == "" || !isSlug(slug) {
		return "", model.ErrNotFound
	}
	return filepath.Join(f.dir, slug+".json"), nil
}

func isSlug(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}
