// Package upload saves product images to the local upload directory.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

type Store struct {
	Dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes fh under the upload directory and returns the stored name. A nil
// header, an empty name or a disallowed extension yields "" and no error. An
// existing file with the same name is overwritten.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" || !Allowed(fh.Filename) {
		return "", nil
	}
	name := SecureFilename(fh.Filename)
	if name == "" || !Allowed(name) {
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

// Path resolves a stored filename, rejecting anything that is not a plain
// sanitised name.
func (s *Store) Path(name string) (string, bool) {
	if name == "" || SecureFilename(name) != name {
		return "", false
	}
	return filepath.Join(s.Dir, name), true
}
