package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inka/internal/memory"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "List, rename and delete tags",
	}
	cmd.AddCommand(newTagListCmd(a), newTagDeleteCmd(a), newTagRenameCmd(a))
	return cmd
}

func newTagListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags with the number of cards carrying each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []tagView
			err := a.readMemory(func(m *memory.Memory) error {
				v := newViewer(m)
				views = make([]tagView, 0)
				for _, t := range m.Tags() {
					views = append(views, v.tag(t))
				}
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tCARDS")
			for _, t := range views {
				fmt.Fprintf(tw, "%s\t%d\n", t.Name, t.Cards)
			}
			return tw.Flush()
		},
	}
}

func newTagDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag>",
		Short: "Delete a tag and detach it from every card and deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				t, err := m.FindTag(args[0])
				if err != nil {
					return false, err
				}
				return true, m.DeleteTag(t.TagID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %q\n", args[0])
			return nil
		},
	}
}

func newTagRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				return true, m.RenameTag(args[0], args[1])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed tag %q to %q\n", args[0], args[1])
			return nil
		},
	}
}
