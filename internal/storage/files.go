// Package storage stores uploaded item photos on disk under random names.
// The rest of the application only ever refers to a photo by its stored
// name; nothing outside this package touches the upload directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists blobs under a directory.
type Store struct {
	Dir string
}

// New creates the upload directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes data to a new file and returns the stored name. The name is a
// random UUID carrying only the extension of the suggested name, so client
// file names never reach the filesystem.
func (s *Store) Save(data []byte, suggestedName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(suggestedName))
	name := uuid.NewString() + ext

	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return name, nil
}

// Open returns the contents of a stored file. Returns nil data with no error
// if the file does not exist.
func (s *Store) Open(name string) ([]byte, error) {
	// Reject anything that could escape the directory.
	if name != filepath.Base(name) || name == "." || name == "" {
		return nil, fmt.Errorf("invalid file name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Remove deletes a stored file. Used to clean up after a failed database
// insert; missing files are not an error.
func (s *Store) Remove(name string) error {
	if name != filepath.Base(name) || name == "." || name == "" {
		return fmt.Errorf("invalid file name %q", name)
	}

	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}
