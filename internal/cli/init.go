package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inka/internal/storage"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and an empty store",
		Long: `Init writes a default config.yaml if none exists and creates an empty
store in the data directory. An existing store is loaded to check it and
is otherwise left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := storage.Open(a.storage, a.logger)
			if err != nil {
				return sysError(err)
			}
			defer s.Close()

			exists, err := s.Exists()
			if err != nil {
				return sysError(err)
			}
			m, err := storage.LoadOrInit(s)
			if err != nil {
				return err
			}
			if !exists {
				if err := s.Save(m); err != nil {
					return sysError(fmt.Errorf("initialize storage: %w", err))
				}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Config: %s\n", filepath.Join(a.configDir, configFileExt))
			fmt.Fprintf(w, "Data:   %s (%s backend)\n", a.storage.DataDir, a.storage.Backend)
			if exists {
				fmt.Fprintf(w, "Store already initialized with %d cards\n", len(m.Cards()))
			} else {
				fmt.Fprintln(w, "inka initialized successfully")
			}
			return nil
		},
	}
}
