package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/pkg/types"
)

// JSONStorage keeps the save document in a single file.
type JSONStorage struct {
	path   string
	logger *slog.Logger
}

// NewJSONStorage returns a JSONStorage for the file at path. The file is not
// touched until Load or Save. A nil logger discards output.
func NewJSONStorage(path string, logger *slog.Logger) *JSONStorage {
	return &JSONStorage{path: path, logger: discardIfNil(logger)}
}

// Path returns the save file location.
func (s *JSONStorage) Path() string { return s.path }

func (s *JSONStorage) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", s.path, err)
}

func (s *JSONStorage) Load() (*memory.Memory, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, types.NewCorrupted("reading "+s.path, err)
	}
	m, err := Decode(data)
	if err != nil {
		s.logger.Warn("save file rejected", "path", s.path, "error", err)
		return nil, err
	}
	s.logger.Debug("loaded save file", "path", s.path, "bytes", len(data))
	return m, nil
}

func (s *JSONStorage) Save(m *memory.Memory) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	s.logger.Debug("saved save file", "path", s.path, "bytes", len(data))
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *JSONStorage) Close() error { return nil }
