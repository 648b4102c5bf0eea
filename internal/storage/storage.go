package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/pkg/types"
)

// File names used inside the data directory.
const (
	JSONFileName   = "inka.json"
	SQLiteFileName = "inka.db"
)

// Storage loads and saves a whole Memory at a fixed location.
//
// Load fails with an error matching types.ErrStorageCorrupted when the
// location holds data that cannot be turned back into a consistent Memory.
// Save replaces the stored state as a unit; an interrupted Save leaves the
// previous state readable.
type Storage interface {
	// Exists reports whether the location holds saved state.
	Exists() (bool, error)
	Load() (*memory.Memory, error)
	Save(m *memory.Memory) error
	Close() error
}

// Open validates cfg and returns the backend it names, rooted at
// cfg.DataDir. A nil logger discards output.
func Open(cfg types.Config, logger *slog.Logger) (Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}

	switch cfg.Backend {
	case types.BackendSQLite:
		return NewSQLiteStorage(filepath.Join(dataDir, SQLiteFileName), logger), nil
	default:
		return NewJSONStorage(filepath.Join(dataDir, JSONFileName), logger), nil
	}
}

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// LoadOrInit loads the stored Memory, or returns an empty one when nothing
// has been saved yet.
func LoadOrInit(s Storage) (*memory.Memory, error) {
	ok, err := s.Exists()
	if err != nil {
		return nil, err
	}
	if !ok {
		return memory.New(), nil
	}
	return s.Load()
}
