package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inka/pkg/inka"
)

const modulePath = "github.com/mesh-intelligence/inka"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inka version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "inka v%s (%s)\nmodule: %s\n", inka.Version, inka.Commit, modulePath)
			return nil
		},
	}
}
