package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inka/internal/memory"
)

func newDeckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "List, inspect and organize decks",
	}
	cmd.AddCommand(
		newDeckListCmd(a),
		newDeckViewCmd(a),
		newDeckDeleteCmd(a),
		newDeckRenameCmd(a),
		newDeckTagCmd(a),
		newDeckRemoveCardCmd(a),
		newDeckRemoveTagCmd(a),
	)
	return cmd
}

func newDeckListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []deckView
			err := a.readMemory(func(m *memory.Memory) error {
				v := newViewer(m)
				views = make([]deckView, 0)
				for _, d := range m.Decks() {
					views = append(views, v.deck(d, false))
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
				fmt.Fprintln(cmd.OutOrStdout(), "No decks.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DECK\tCARDS\tTAGS")
			for _, d := range views {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Name, d.Count, strings.Join(d.Tags, ", "))
			}
			return tw.Flush()
		},
	}
}

func newDeckViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <deck>",
		Short: "Show a deck and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view deckView
			err := a.readMemory(func(m *memory.Memory) error {
				d, err := m.FindDeck(args[0])
				if err != nil {
					return err
				}
				view = newViewer(m).deck(d, true)
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), view)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Deck %s (%s)\n", view.Name, view.ID)
			if len(view.Tags) > 0 {
				fmt.Fprintf(w, "Tags: %s\n", strings.Join(view.Tags, ", "))
			}
			if len(view.Cards) == 0 {
				fmt.Fprintln(w, "No cards.")
				return nil
			}
			return printCardTable(w, view.Cards)
		},
	}
}

func newDeckDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck>",
		Short: "Delete a deck; its cards are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				d, err := m.FindDeck(args[0])
				if err != nil {
					return false, err
				}
				return true, m.DeleteDeck(d.DeckID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %q\n", args[0])
			return nil
		},
	}
}

func newDeckRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				return true, m.RenameDeck(args[0], args[1])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed deck %q to %q\n", args[0], args[1])
			return nil
		},
	}
}

func newDeckTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <deck> <tag>",
		Short: "Tag a deck, creating the deck and tag if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res memory.DeckTagging
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				var err error
				res, err = m.AddTagToDeck(args[0], args[1])
				return err == nil, err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tagged deck %q (deck %s) with %q (tag %s)\n",
				args[0], res.DeckOutcome, args[1], res.TagOutcome)
			return nil
		},
	}
}

func newDeckRemoveCardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-card <deck> <card>",
		Short: "Remove a card from a deck; the card is kept",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				d, err := m.FindDeck(args[0])
				if err != nil {
					return false, err
				}
				c, err := resolveCard(m, args[1])
				if err != nil {
					return false, err
				}
				return true, m.RemoveCardFromDeck(d.DeckID, c.CardID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed card from deck %q\n", args[0])
			return nil
		},
	}
}

func newDeckRemoveTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-tag <deck> <tag>",
		Short: "Detach a tag from a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				d, err := m.FindDeck(args[0])
				if err != nil {
					return false, err
				}
				t, err := m.FindTag(args[1])
				if err != nil {
					return false, err
				}
				return true, m.RemoveTagFromDeck(d.DeckID, t.TagID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed tag %q from deck %q\n", args[1], args[0])
			return nil
		},
	}
}
