package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/internal/search"
	"github.com/mesh-intelligence/inka/pkg/types"
)

func newCardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Create, inspect and organize cards",
	}
	cmd.AddCommand(
		newCardAddCmd(a),
		newCardDeleteCmd(a),
		newCardListCmd(a),
		newCardViewCmd(a),
		newCardTagCmd(a),
		newCardUntagCmd(a),
		newCardDeckCmd(a),
		newCardSearchCmd(a),
	)
	return cmd
}

func newCardAddCmd(a *app) *cobra.Command {
	var tags []string
	var deck string

	cmd := &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Create a new card",
		Long: `Add creates a card. Tags and the deck are created if they do not exist.

Example:
  inka card add "der Hund" "the dog" --tag nouns --deck german`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view cardView
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				id := m.AddCard(args[0], args[1])
				for _, name := range tags {
					if _, _, err := m.AddTagToCard(id, name); err != nil {
						return false, err
					}
				}
				if deck != "" {
					if _, _, err := m.AddCardToDeck(deck, id); err != nil {
						return false, err
					}
				}
				c, err := m.Card(id)
				if err != nil {
					return false, err
				}
				view = newViewer(m).card(c)
				return true, nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), view)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created card %d: %s\n", view.Position, view.ID)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to attach (repeatable)")
	cmd.Flags().StringVar(&deck, "deck", "", "deck to add the card to")
	return cmd
}

func newCardDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card>",
		Short: "Delete a card and remove it from every deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var deleted types.Card
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				c, err := resolveCard(m, args[0])
				if err != nil {
					return false, err
				}
				deleted = c
				return true, m.DeleteCard(c.CardID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", deleted.CardID)
			return nil
		},
	}
}

func newCardListCmd(a *app) *cobra.Command {
	var tag, deck string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards, optionally filtered by tag or deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []cardView
			err := a.readMemory(func(m *memory.Memory) error {
				cards := m.Cards()
				if tag != "" {
					t, err := m.FindTag(tag)
					if err != nil {
						return err
					}
					if cards, err = m.CardsWithTag(t.TagID); err != nil {
						return err
					}
				}
				if deck != "" {
					d, err := m.FindDeck(deck)
					if err != nil {
						return err
					}
					inDeck := make(map[types.CardID]bool, len(d.Cards))
					for _, id := range d.Cards {
						inDeck[id] = true
					}
					filtered := cards[:0:0]
					for _, c := range cards {
						if inDeck[c.CardID] {
							filtered = append(filtered, c)
						}
					}
					cards = filtered
				}
				views = newViewer(m).cards(cards)
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cards.")
				return nil
			}
			return printCardTable(cmd.OutOrStdout(), views)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only cards with this tag")
	cmd.Flags().StringVar(&deck, "deck", "", "only cards in this deck")
	return cmd
}

func newCardViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <card>",
		Short: "Show a card with its tags and decks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view cardView
			err := a.readMemory(func(m *memory.Memory) error {
				c, err := resolveCard(m, args[0])
				if err != nil {
					return err
				}
				view = newViewer(m).card(c)
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), view)
			}
			printCard(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newCardTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <card> <tag>...",
		Short: "Attach tags to a card, creating tags that do not exist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var lines []string
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				c, err := resolveCard(m, args[0])
				if err != nil {
					return false, err
				}
				for _, name := range args[1:] {
					_, outcome, err := m.AddTagToCard(c.CardID, name)
					if err != nil {
						return false, err
					}
					lines = append(lines, fmt.Sprintf("Tagged card with %q (tag %s)", name, outcome))
				}
				return true, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}
}

func newCardUntagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "untag <card> <tag>",
		Short: "Detach a tag from a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				c, err := resolveCard(m, args[0])
				if err != nil {
					return false, err
				}
				t, err := m.FindTag(args[1])
				if err != nil {
					return false, err
				}
				return true, m.RemoveTagFromCard(c.CardID, t.TagID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed tag %q\n", args[1])
			return nil
		},
	}
}

func newCardDeckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deck <card> <deck>",
		Short: "Add a card to a deck, creating the deck if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outcome memory.Outcome
			err := a.withMemory(func(m *memory.Memory) (bool, error) {
				c, err := resolveCard(m, args[0])
				if err != nil {
					return false, err
				}
				_, outcome, err = m.AddCardToDeck(args[1], c.CardID)
				return err == nil, err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added card to deck %q (deck %s)\n", args[1], outcome)
			return nil
		},
	}
}

func newCardSearchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over cards",
		Long: `Search matches words in questions, answers and tag names.
Fields can be targeted with tags:<name> and decks:<name>.

Example:
  inka card search hund
  inka card search "tags:verbs walk"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []cardView
			err := a.readMemory(func(m *memory.Memory) error {
				index, err := search.NewIndex(m, a.logger)
				if err != nil {
					return sysError(err)
				}
				defer index.Close()

				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				hits, err := index.Search(ctx, strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				v := newViewer(m)
				for _, h := range hits {
					c, err := m.Card(h.CardID)
					if err != nil {
						return err
					}
					views = append(views, v.card(c))
				}
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				if views == nil {
					views = []cardView{}
				}
				return printJSON(cmd.OutOrStdout(), views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching cards.")
				return nil
			}
			return printCardTable(cmd.OutOrStdout(), views)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", search.DefaultLimit, "maximum number of results")
	return cmd
}
