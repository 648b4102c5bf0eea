package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/pkg/types"
)

// cardView is the JSON and table form of a card.
type cardView struct {
	Position int      `json:"position"`
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags"`
	Decks    []string `json:"decks"`
}

type tagView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards int    `json:"cards"`
}

type deckView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Tags  []string   `json:"tags"`
	Cards []cardView `json:"cards,omitempty"`
	Count int        `json:"card_count"`
}

// viewer builds views against one Memory, caching card positions.
type viewer struct {
	m         *memory.Memory
	positions map[types.CardID]int
}

func newViewer(m *memory.Memory) *viewer {
	v := &viewer{m: m, positions: make(map[types.CardID]int)}
	for i, c := range m.Cards() {
		v.positions[c.CardID] = i + 1
	}
	return v
}

func (v *viewer) card(c types.Card) cardView {
	view := cardView{
		Position: v.positions[c.CardID],
		ID:       c.CardID.String(),
		Question: c.Question,
		Answer:   c.Answer,
		Tags:     []string{},
		Decks:    []string{},
	}
	for _, t := range mustRender(v.m.TagsOf(c.CardID)) {
		view.Tags = append(view.Tags, t.Name)
	}
	for _, d := range mustRender(v.m.DecksForCard(c.CardID)) {
		view.Decks = append(view.Decks, d.Name)
	}
	return view
}

func (v *viewer) cards(cards []types.Card) []cardView {
	out := make([]cardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, v.card(c))
	}
	return out
}

func (v *viewer) tag(t types.Tag) tagView {
	cards := mustRender(v.m.CardsWithTag(t.TagID))
	return tagView{ID: t.TagID.String(), Name: t.Name, Cards: len(cards)}
}

func (v *viewer) deck(d types.Deck, withCards bool) deckView {
	view := deckView{ID: d.DeckID.String(), Name: d.Name, Tags: []string{}, Count: len(d.Cards)}
	for _, id := range d.Tags {
		view.Tags = append(view.Tags, mustRender(v.m.Tag(id)).Name)
	}
	if withCards {
		view.Cards = v.cards(mustRender(v.m.CardsInDeck(d.DeckID)))
	}
	return view
}

// mustRender unwraps a lookup for a record taken from the same Memory. A
// failure there is a defect in the store, not a user error.
func mustRender[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("cli: rendering from an inconsistent store: %v", err))
	}
	return v
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printCardTable(w io.Writer, cards []cardView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tQUESTION\tANSWER\tTAGS")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.Position, oneLine(c.Question), oneLine(c.Answer), strings.Join(c.Tags, ", "))
	}
	return tw.Flush()
}

func printCard(w io.Writer, c cardView) {
	fmt.Fprintf(w, "Card %d (%s)\n", c.Position, c.ID)
	fmt.Fprintf(w, "Question: %s\n", c.Question)
	fmt.Fprintf(w, "Answer:   %s\n", c.Answer)
	if len(c.Tags) > 0 {
		fmt.Fprintf(w, "Tags:     %s\n", strings.Join(c.Tags, ", "))
	}
	if len(c.Decks) > 0 {
		fmt.Fprintf(w, "Decks:    %s\n", strings.Join(c.Decks, ", "))
	}
}

// oneLine keeps multi-line card text on a single table row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
