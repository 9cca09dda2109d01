package storage

import (
	"errors"
	"fmt"

	"cth/internal/config"
	"cth/internal/domain"
)

// ErrNoResults is returned by Load when no run has been stored yet
var ErrNoResults = errors.New("no stored results")

// Storage persists and loads run reports (e.g. for the failures viewer).
type Storage interface {
	Save(report *domain.RunReport) error
	Load() (*domain.RunReport, error)
}

// Multi saves to every backend and loads from the first one
type Multi []Storage

// Save writes the report to every backend, stopping at the first error
func (m Multi) Save(report *domain.RunReport) error {
	for _, s := range m {
		if err := s.Save(report); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the report from the first backend
func (m Multi) Load() (*domain.RunReport, error) {
	if len(m) == 0 {
		return nil, ErrNoResults
	}
	return m[0].Load()
}

// New returns the file storage configured by cfg
func New(cfg *config.Config) (*FileStorage, error) {
	codec, err := codecFor(cfg.ResultsFormat)
	if err != nil {
		return nil, err
	}
	return &FileStorage{path: cfg.GetOutputPath(), codec: codec}, nil
}

func codecFor(format string) (codec, error) {
	switch format {
	case config.FormatJSON:
		return jsonCodec{}, nil
	case config.FormatMsgpack:
		return msgpackCodec{}, nil
	}
	return nil, fmt.Errorf("unsupported results format %q", format)
}
