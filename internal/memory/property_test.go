package memory

import (
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/mesh-intelligence/inka/pkg/types"
)

func nameGenerator() *rapid.Generator[string] {
	return rapid.SampledFrom([]string{"foo", "bar", "baz", "Foo", "verbs", "nouns"})
}

// pickCard draws an existing card id, or a fresh one that does not exist.
func pickCard(t *rapid.T, m *Memory, label string) types.CardID {
	cards := m.Cards()
	if len(cards) == 0 || rapid.IntRange(0, 9).Draw(t, label+"-miss") == 0 {
		return types.NewCardID()
	}
	return cards[rapid.IntRange(0, len(cards)-1).Draw(t, label)].CardID
}

func pickTag(t *rapid.T, m *Memory, label string) types.TagID {
	tags := m.Tags()
	if len(tags) == 0 || rapid.IntRange(0, 9).Draw(t, label+"-miss") == 0 {
		return types.NewTagID()
	}
	return tags[rapid.IntRange(0, len(tags)-1).Draw(t, label)].TagID
}

func pickDeck(t *rapid.T, m *Memory, label string) types.DeckID {
	decks := m.Decks()
	if len(decks) == 0 || rapid.IntRange(0, 9).Draw(t, label+"-miss") == 0 {
		return types.NewDeckID()
	}
	return decks[rapid.IntRange(0, len(decks)-1).Draw(t, label)].DeckID
}

// snapshot captures the observable state so failed operations can be shown
// to leave it untouched.
type snapshot struct {
	cards []types.Card
	tags  []types.Tag
	decks []types.Deck
}

func take(m *Memory) snapshot {
	return snapshot{cards: m.Cards(), tags: m.Tags(), decks: m.Decks()}
}

func (s snapshot) equal(o snapshot) bool {
	return slices.EqualFunc(s.cards, o.cards, func(a, b types.Card) bool {
		return a.CardID == b.CardID && a.Question == b.Question && a.Answer == b.Answer && slices.Equal(a.Tags, b.Tags)
	}) && slices.Equal(s.tags, o.tags) && slices.EqualFunc(s.decks, o.decks, func(a, b types.Deck) bool {
		return a.DeckID == b.DeckID && a.Name == b.Name && slices.Equal(a.Cards, b.Cards) && slices.Equal(a.Tags, b.Tags)
	})
}

func testOperationSequence_Properties(t *rapid.T) {
	m := New()
	steps := rapid.IntRange(1, 60).Draw(t, "steps")

	for i := 0; i < steps; i++ {
		before := take(m)
		var err error

		switch rapid.IntRange(0, 11).Draw(t, "op") {
		case 0, 1:
			m.AddCard(rapid.String().Draw(t, "question"), rapid.String().Draw(t, "answer"))
		case 2:
			err = m.DeleteCard(pickCard(t, m, "card"))
		case 3, 4:
			_, _, err = m.AddTagToCard(pickCard(t, m, "card"), nameGenerator().Draw(t, "tag"))
		case 5:
			err = m.RemoveTagFromCard(pickCard(t, m, "card"), pickTag(t, m, "tag"))
		case 6:
			_, _, err = m.AddCardToDeck(nameGenerator().Draw(t, "deck"), pickCard(t, m, "card"))
		case 7:
			_, err = m.AddTagToDeck(nameGenerator().Draw(t, "deck"), nameGenerator().Draw(t, "tag"))
		case 8:
			err = m.DeleteTag(pickTag(t, m, "tag"))
		case 9:
			err = m.DeleteDeck(pickDeck(t, m, "deck"))
		case 10:
			err = m.RenameTag(nameGenerator().Draw(t, "old"), nameGenerator().Draw(t, "new"))
		case 11:
			err = m.RenameDeck(nameGenerator().Draw(t, "old"), nameGenerator().Draw(t, "new"))
		}

		if err != nil && !take(m).equal(before) {
			t.Fatalf("failed operation changed the store: %v", err)
		}
		if ierr := m.CheckIntegrity(); ierr != nil {
			t.Fatalf("integrity violated after step %d: %v", i, ierr)
		}
		seen := make(map[string]bool)
		for _, tag := range m.Tags() {
			if seen[tag.Name] {
				t.Fatalf("tag name %q is not unique", tag.Name)
			}
			seen[tag.Name] = true
		}
	}
}

func TestOperationSequence_Properties(t *testing.T) {
	rapid.Check(t, testOperationSequence_Properties)
}

func testIdempotentTagging_Properties(t *rapid.T) {
	m := New()
	c := m.AddCard("q", "a")
	name := nameGenerator().Draw(t, "tag")

	if _, _, err := m.AddTagToCard(c, name); err != nil {
		t.Fatalf("first tag: %v", err)
	}
	once, _ := m.Card(c)
	if _, _, err := m.AddTagToCard(c, name); err != nil {
		t.Fatalf("second tag: %v", err)
	}
	twice, _ := m.Card(c)
	if !slices.Equal(once.Tags, twice.Tags) {
		t.Fatalf("tag list changed: %v -> %v", once.Tags, twice.Tags)
	}
}

func TestIdempotentTagging_Properties(t *testing.T) {
	rapid.Check(t, testIdempotentTagging_Properties)
}
