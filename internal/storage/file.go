package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cth/internal/domain"
)

// FileStorage stores the last run report in a single file
type FileStorage struct {
	path  string
	codec codec
}

// NewFileStorage returns a FileStorage for path, encoded as format
func NewFileStorage(path, format string) (*FileStorage, error) {
	codec, err := codecFor(format)
	if err != nil {
		return nil, err
	}
	return &FileStorage{path: path, codec: codec}, nil
}

// Path returns the results file path
func (s *FileStorage) Path() string {
	return s.path
}

// Save replaces the results file with report. The file is written to a
// temporary name first and renamed into place.
func (s *FileStorage) Save(report *domain.RunReport) error {
	data, err := s.codec.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.CreateTemp(dir, ".cth-results-*")
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write results: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if err := os.Rename(f.Name(), s.path); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads the last run report
func (s *FileStorage) Load() (*domain.RunReport, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoResults, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var report domain.RunReport
	if err := s.codec.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &report, nil
}
