package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage keeps the original uploaded statement documents so a run's
// source can be re-examined later.
type Storage interface {
	// Save saves a document and returns the name it was stored under.
	Save(filename string, data []byte) (string, error)

	// Get retrieves a document by its stored name.
	Get(name string) ([]byte, error)

	// Delete removes a document.
	Delete(name string) error
}

// LocalStorage implements Storage on a single flat directory. Statement
// names arrive from HTTP uploads and recorded runs, so every operation
// reduces its argument to a base name; a stored name can never address a
// path outside the directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the storage directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save writes a statement document into the storage directory under the
// base name of filename.
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	name, err := l.statementName(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(l.basePath, name), data, 0644); err != nil {
		return "", fmt.Errorf("writing statement file: %w", err)
	}
	return name, nil
}

// Get reads a stored statement document back.
func (l *LocalStorage) Get(name string) ([]byte, error) {
	name, err := l.statementName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.basePath, name))
	if err != nil {
		return nil, fmt.Errorf("reading statement file: %w", err)
	}
	return data, nil
}

// Delete removes a stored statement document.
func (l *LocalStorage) Delete(name string) error {
	name, err := l.statementName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.basePath, name)); err != nil {
		return fmt.Errorf("removing statement file: %w", err)
	}
	return nil
}

// statementName flattens a statement reference to a usable base name.
func (l *LocalStorage) statementName(filename string) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("unusable statement filename %q", filename)
	}
	return name, nil
}
