package types

import "errors"

// Config selects where inka keeps its cards. Backend picks between the single
// JSON save file (inka.json) and the SQLite database (inka.db); both live in
// DataDir, which the CLI resolves from --data-dir, INKA_DATA_DIR, config.yaml
// or the platform data directory. An empty DataDir means the working
// directory.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Backend names as written in config.yaml. BackendJSON is the default.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
