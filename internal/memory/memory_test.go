package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/inka/pkg/types"
)

func TestAddCard(t *testing.T) {
	m := New()
	id := m.AddCard("fdfds", "ffffffghgg")

	card, err := m.Card(id)
	require.NoError(t, err)
	assert.Equal(t, "fdfds", card.Question)
	assert.Equal(t, "ffffffghgg", card.Answer)
	assert.Empty(t, card.Tags)
	assert.Len(t, m.Cards(), 1)
}

func TestDeleteCard(t *testing.T) {
	m := New()
	keep := m.AddCard("keep", "a")
	drop := m.AddCard("drop", "a")
	deckID, _, err := m.AddCardToDeck("d", keep)
	require.NoError(t, err)
	_, _, err = m.AddCardToDeck("d", drop)
	require.NoError(t, err)

	require.NoError(t, m.DeleteCard(drop))

	_, err = m.Card(drop)
	assert.True(t, types.IsNotFoundKind(err, types.KindCard))
	deck, err := m.Deck(deckID)
	require.NoError(t, err)
	assert.Equal(t, []types.CardID{keep}, deck.Cards, "deck no longer lists deleted card")
	assert.NoError(t, m.CheckIntegrity())
}

func TestDeleteCardNotFound(t *testing.T) {
	m := New()
	m.AddCard("q", "a")
	err := m.DeleteCard(types.NewCardID())
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.True(t, types.IsNotFoundKind(err, types.KindCard))
	assert.Len(t, m.Cards(), 1)
}

func TestAddTagToCardCreatesThenFinds(t *testing.T) {
	m := New()
	c1 := m.AddCard("q1", "a1")
	c2 := m.AddCard("q2", "a2")

	tagID, outcome, err := m.AddTagToCard(c1, "foo")
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)

	again, outcome, err := m.AddTagToCard(c2, "foo")
	require.NoError(t, err)
	assert.Equal(t, Found, outcome)
	assert.Equal(t, tagID, again)
	assert.Len(t, m.Tags(), 1)
}

func TestAddTagToCardIsIdempotent(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")

	first, _, err := m.AddTagToCard(c, "foo")
	require.NoError(t, err)
	once, _ := m.Card(c)

	second, outcome, err := m.AddTagToCard(c, "foo")
	require.NoError(t, err)
	assert.Equal(t, Found, outcome)
	assert.Equal(t, first, second)

	twice, _ := m.Card(c)
	assert.Equal(t, once.Tags, twice.Tags)
	assert.Len(t, twice.Tags, 1)
}

func TestAddTagToCardFailuresLeaveStoreUnchanged(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")

	_, _, err := m.AddTagToCard(types.NewCardID(), "foo")
	assert.True(t, types.IsNotFoundKind(err, types.KindCard))
	assert.Empty(t, m.Tags(), "no tag is created for a missing card")

	_, _, err = m.AddTagToCard(c, "   ")
	assert.ErrorIs(t, err, types.ErrInvalidName)
	assert.Empty(t, m.Tags())
}

func TestAddTagToCardNormalizesNames(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")

	composed, _, err := m.AddTagToCard(c, "caf\u00e9")
	require.NoError(t, err)
	decomposed, outcome, err := m.AddTagToCard(c, "cafe\u0301")
	require.NoError(t, err)

	assert.Equal(t, Found, outcome)
	assert.Equal(t, composed, decomposed)
	assert.Len(t, m.Tags(), 1)
}

func TestRemoveTagFromCard(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")
	foo, _, err := m.AddTagToCard(c, "foo")
	require.NoError(t, err)
	bar, _, err := m.AddTagToCard(c, "bar")
	require.NoError(t, err)

	require.NoError(t, m.RemoveTagFromCard(c, foo))
	card, _ := m.Card(c)
	assert.Equal(t, []types.TagID{bar}, card.Tags)

	require.NoError(t, m.RemoveTagFromCard(c, foo), "detaching an unattached tag is a no-op")
	assert.Len(t, m.Tags(), 2, "the tag itself survives")

	err = m.RemoveTagFromCard(types.NewCardID(), bar)
	assert.True(t, types.IsNotFoundKind(err, types.KindCard))
	err = m.RemoveTagFromCard(c, types.NewTagID())
	assert.True(t, types.IsNotFoundKind(err, types.KindTag))
}

func TestAddCardToDeck(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")

	deckID, outcome, err := m.AddCardToDeck("spanish", c)
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)

	again, outcome, err := m.AddCardToDeck("spanish", c)
	require.NoError(t, err)
	assert.Equal(t, Found, outcome)
	assert.Equal(t, deckID, again)

	deck, err := m.Deck(deckID)
	require.NoError(t, err)
	assert.Equal(t, []types.CardID{c}, deck.Cards)
}

func TestAddCardToDeckMissingCard(t *testing.T) {
	m := New()
	_, _, err := m.AddCardToDeck("spanish", types.NewCardID())
	assert.True(t, types.IsNotFoundKind(err, types.KindCard))
	assert.Empty(t, m.Decks(), "no deck is created for a missing card")
}

func TestAddCardToDeckPicksFirstDeckWithName(t *testing.T) {
	m := New()
	c1 := m.AddCard("q1", "a")
	c2 := m.AddCard("q2", "a")
	first, _, err := m.AddCardToDeck("one", c1)
	require.NoError(t, err)
	second, _, err := m.AddCardToDeck("two", c2)
	require.NoError(t, err)
	require.NoError(t, m.RenameDeck("two", "one"))

	got, outcome, err := m.AddCardToDeck("one", c2)
	require.NoError(t, err)
	assert.Equal(t, Found, outcome)
	assert.Equal(t, first, got)
	assert.NotEqual(t, second, got)
}

func TestAddTagToDeck(t *testing.T) {
	m := New()
	res, err := m.AddTagToDeck("spanish", "verbs")
	require.NoError(t, err)
	assert.Equal(t, Created, res.DeckOutcome)
	assert.Equal(t, Created, res.TagOutcome)

	res2, err := m.AddTagToDeck("spanish", "verbs")
	require.NoError(t, err)
	assert.Equal(t, Found, res2.DeckOutcome)
	assert.Equal(t, Found, res2.TagOutcome)
	assert.Equal(t, res, DeckTagging{DeckID: res2.DeckID, DeckOutcome: Created, TagID: res2.TagID, TagOutcome: Created})

	deck, err := m.Deck(res.DeckID)
	require.NoError(t, err)
	assert.Equal(t, []types.TagID{res.TagID}, deck.Tags)

	_, err = m.AddTagToDeck("spanish", "")
	assert.ErrorIs(t, err, types.ErrInvalidName)
	_, err = m.AddTagToDeck("", "verbs")
	assert.ErrorIs(t, err, types.ErrInvalidName)
	assert.Len(t, m.Decks(), 1)
	assert.Len(t, m.Tags(), 1)
}

func TestRemoveCardAndTagFromDeck(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")
	deckID, _, err := m.AddCardToDeck("d", c)
	require.NoError(t, err)
	res, err := m.AddTagToDeck("d", "t")
	require.NoError(t, err)

	require.NoError(t, m.RemoveCardFromDeck(deckID, c))
	require.NoError(t, m.RemoveTagFromDeck(deckID, res.TagID))

	deck, _ := m.Deck(deckID)
	assert.Empty(t, deck.Cards)
	assert.Empty(t, deck.Tags)
	assert.Len(t, m.Cards(), 1)
	assert.Len(t, m.Tags(), 1)

	assert.True(t, types.IsNotFoundKind(m.RemoveCardFromDeck(types.NewDeckID(), c), types.KindDeck))
	assert.True(t, types.IsNotFoundKind(m.RemoveCardFromDeck(deckID, types.NewCardID()), types.KindCard))
	assert.True(t, types.IsNotFoundKind(m.RemoveTagFromDeck(deckID, types.NewTagID()), types.KindTag))
}

func TestDeleteTagCascades(t *testing.T) {
	m := New()
	c1 := m.AddCard("q1", "a1")
	tagID, _, err := m.AddTagToCard(c1, "t")
	require.NoError(t, err)
	res, err := m.AddTagToDeck("d1", "t")
	require.NoError(t, err)
	require.Equal(t, tagID, res.TagID)

	require.NoError(t, m.DeleteTag(tagID))

	card, _ := m.Card(c1)
	assert.NotContains(t, card.Tags, tagID)
	deck, _ := m.Deck(res.DeckID)
	assert.NotContains(t, deck.Tags, tagID)

	_, err = m.FindTag("t")
	assert.True(t, types.IsNotFoundKind(err, types.KindTag))
	assert.NoError(t, m.CheckIntegrity())

	err = m.DeleteTag(tagID)
	assert.True(t, types.IsNotFoundKind(err, types.KindTag))
}

func TestDeleteDeckDoesNotCascade(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")
	deckID, _, err := m.AddCardToDeck("d", c)
	require.NoError(t, err)
	_, err = m.AddTagToDeck("d", "t")
	require.NoError(t, err)

	require.NoError(t, m.DeleteDeck(deckID))

	assert.Empty(t, m.Decks())
	assert.Len(t, m.Cards(), 1)
	assert.Len(t, m.Tags(), 1)

	err = m.DeleteDeck(deckID)
	assert.True(t, types.IsNotFoundKind(err, types.KindDeck))
}

func TestRenameDeck(t *testing.T) {
	m := New()
	_, err := m.AddTagToDeck("old", "t")
	require.NoError(t, err)
	_, err = m.AddTagToDeck("other", "t")
	require.NoError(t, err)

	require.NoError(t, m.RenameDeck("old", "other"), "deck names may repeat")
	_, err = m.FindDeck("old")
	assert.True(t, types.IsNotFoundKind(err, types.KindDeck))

	err = m.RenameDeck("missing", "x")
	assert.True(t, types.IsNotFoundKind(err, types.KindDeck))
}

func TestRenameTag(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")
	foo, _, err := m.AddTagToCard(c, "foo")
	require.NoError(t, err)
	_, _, err = m.AddTagToCard(c, "bar")
	require.NoError(t, err)

	err = m.RenameTag("foo", "bar")
	assert.ErrorIs(t, err, types.ErrDuplicateName)
	tag, _ := m.Tag(foo)
	assert.Equal(t, "foo", tag.Name, "failed rename leaves the name alone")

	require.NoError(t, m.RenameTag("foo", "foo"), "renaming to the same name is allowed")
	require.NoError(t, m.RenameTag("foo", "baz"))
	tag, _ = m.Tag(foo)
	assert.Equal(t, "baz", tag.Name)

	err = m.RenameTag("missing", "x")
	assert.True(t, types.IsNotFoundKind(err, types.KindTag))
}

func TestCardAt(t *testing.T) {
	m := New()
	m.AddCard("first", "a")
	m.AddCard("second", "a")

	c, err := m.CardAt(2)
	require.NoError(t, err)
	assert.Equal(t, "second", c.Question)

	for _, idx := range []int{0, 3, -1} {
		_, err := m.CardAt(idx)
		assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
	}
}

func TestInverseQueries(t *testing.T) {
	m := New()
	c1 := m.AddCard("q1", "a")
	c2 := m.AddCard("q2", "a")
	d1, _, err := m.AddCardToDeck("d1", c1)
	require.NoError(t, err)
	_, _, err = m.AddCardToDeck("d2", c1)
	require.NoError(t, err)
	_, _, err = m.AddCardToDeck("d2", c2)
	require.NoError(t, err)
	tagID, _, err := m.AddTagToCard(c2, "t")
	require.NoError(t, err)

	decks, err := m.DecksForCard(c1)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "d1", decks[0].Name)
	assert.Equal(t, "d2", decks[1].Name)

	cards, err := m.CardsInDeck(d1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, c1, cards[0].CardID)

	tagged, err := m.CardsWithTag(tagID)
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, c2, tagged[0].CardID)

	tags, err := m.TagsOf(c2)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "t", tags[0].Name)

	_, err = m.DecksForCard(types.NewCardID())
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = m.CardsInDeck(types.NewDeckID())
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = m.CardsWithTag(types.NewTagID())
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = m.TagsOf(types.NewCardID())
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestViewsAreReadOnly(t *testing.T) {
	m := New()
	c := m.AddCard("q", "a")
	_, _, err := m.AddTagToCard(c, "t")
	require.NoError(t, err)

	cards := m.Cards()
	cards[0].Tags[0] = types.NewTagID()
	tags := m.Tags()
	tags[0].Name = "hijacked"

	assert.NoError(t, m.CheckIntegrity())
	_, err = m.FindTag("t")
	assert.NoError(t, err)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "found", Found.String())
}
