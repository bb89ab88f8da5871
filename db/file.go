package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"askchart/models"
)

// FileKV keeps each document as a file under root, so a user's data is a
// plain directory tree:
//
//	<root>/<user>/metadata.json
//	<root>/<user>/history_index.json
//	<root>/<user>/queries/<id>.json
//	<root>/<user>/presets/<id>.json
//	<root>/<user>/presets/preset_index.json
type FileKV struct {
	root string
}

func NewFileKV(root string) (*FileKV, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileKV{root: root}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

func (f *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Set writes through a temporary file and a rename so readers never see a
// partially written document.
func (f *FileKV) Set(key string, value []byte) error {
	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (f *FileKV) Delete(key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", key, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (f *FileKV) Close() error {
	return nil
}
