package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/internal/storage"
)

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole store as a JSON document",
		Long: `Export writes every card, tag and deck in the save document format,
whichever backend holds them. The result can be used as inka.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			err := a.readMemory(func(m *memory.Memory) error {
				var err error
				data, err = storage.Encode(m)
				return err
			})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return sysError(fmt.Errorf("write %s: %w", output, err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}
