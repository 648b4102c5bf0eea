// Package cli implements the inka command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inka/internal/logger"
	"github.com/mesh-intelligence/inka/internal/paths"
	"github.com/mesh-intelligence/inka/pkg/inka"
	"github.com/mesh-intelligence/inka/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app carries the state resolved before a subcommand runs.
type app struct {
	flags     rootFlags
	configDir string
	storage   types.Config
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "inka" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "inka",
		Short: "Flashcards with tags and decks",
		Long: `inka keeps question and answer flashcards in a local save file.
Cards can carry tags and belong to named decks; tags and decks are
created the first time they are used.

Cards are addressed by their position in "inka card list" or by id.`,
		Version:           inka.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCardCmd(a))
	root.AddCommand(newTagCmd(a))
	root.AddCommand(newDeckCmd(a))
	root.AddCommand(newExportCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "inka:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// setup resolves directories, loads config.yaml and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	if err := v.BindPFlag(cfgKeyLogLevel, cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return sysError(err)
	}

	level, err := logger.ParseLevel(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{
		Writer: cmd.ErrOrStderr(),
		Format: v.GetString(cfgKeyLogFormat),
		Level:  level,
	})
	if err != nil {
		return err
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	a.configDir = configDir
	a.logger = log
	a.storage = types.Config{Backend: v.GetString(cfgKeyBackend), DataDir: dataDir}
	if err := a.storage.Validate(); err != nil {
		return fmt.Errorf("config.yaml backend %q: %w", a.storage.Backend, err)
	}
	log.Debug("resolved directories", "config_dir", configDir, "data_dir", dataDir, "backend", a.storage.Backend)
	return nil
}

// systemError marks failures of the environment rather than of the request.
type systemError struct{ err error }

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysError(err error) error {
	if err == nil {
		return nil
	}
	return &systemError{err: err}
}

// exitCode maps an error to the process exit status. Storage corruption and
// wrapped system errors are exitSysError; everything else is the caller's.
func exitCode(err error) int {
	var se *systemError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se), errors.Is(err, types.ErrStorageCorrupted):
		return exitSysError
	default:
		return exitUserError
	}
}
