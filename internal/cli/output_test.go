package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/pkg/types"
)

func TestViewerDeck(t *testing.T) {
	m := memory.New()
	c := m.AddCard("der Hund", "the dog")
	_, _, err := m.AddCardToDeck("german", c)
	require.NoError(t, err)
	_, err = m.AddTagToDeck("german", "nouns")
	require.NoError(t, err)
	d, err := m.FindDeck("german")
	require.NoError(t, err)

	view := newViewer(m).deck(d, true)
	assert.Equal(t, []string{"nouns"}, view.Tags)
	assert.Equal(t, 1, view.Count)
	require.Len(t, view.Cards, 1)
	assert.Equal(t, "der Hund", view.Cards[0].Question)
	assert.Equal(t, 1, view.Cards[0].Position)
}

func TestViewerPanicsOnRecordsFromAnotherStore(t *testing.T) {
	v := newViewer(memory.New())

	tests := []struct {
		name   string
		render func()
	}{
		{"deck cards", func() { v.deck(types.Deck{DeckID: types.NewDeckID(), Name: "d"}, true) }},
		{"deck tags", func() { v.deck(types.Deck{DeckID: types.NewDeckID(), Name: "d", Tags: []types.TagID{types.NewTagID()}}, false) }},
		{"tag", func() { v.tag(types.Tag{TagID: types.NewTagID(), Name: "t"}) }},
		{"card", func() { v.card(types.Card{CardID: types.NewCardID()}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.render)
		})
	}
}
