// Package memory implements the in-memory flashcard store: three ordered,
// identifier-indexed collections (cards, tags, decks) and the aggregate that
// keeps their cross-references consistent.
//
// Every exported Memory operation either applies completely or returns an
// error and leaves the store unchanged. Between operations every identifier
// stored inside a card or deck resolves to a record in the matching
// collection. Memory is not safe for concurrent use.
package memory

import (
	"fmt"

	"github.com/mesh-intelligence/inka/pkg/types"
)

// Outcome tells the caller whether a name lookup found an existing entity or
// created a new one.
type Outcome int

// Outcome values.
const (
	Found Outcome = iota
	Created
)

func (o Outcome) String() string {
	if o == Created {
		return "created"
	}
	return "found"
}

// DeckTagging is the result of AddTagToDeck.
type DeckTagging struct {
	DeckID      types.DeckID
	DeckOutcome Outcome
	TagID       types.TagID
	TagOutcome  Outcome
}

// Memory owns one collection of each entity type.
type Memory struct {
	cards *CardStore
	tags  *TagStore
	decks *DeckStore
}

// New returns an empty Memory.
func New() *Memory {
	return &Memory{
		cards: NewCardStore(),
		tags:  NewTagStore(),
		decks: NewDeckStore(),
	}
}

// AddCard creates a card and returns its identifier.
func (m *Memory) AddCard(question, answer string) types.CardID {
	c := types.NewCard(question, answer)
	m.mustInsertCard(c)
	return c.CardID
}

// DeleteCard removes a card and drops it from every deck.
func (m *Memory) DeleteCard(id types.CardID) error {
	if _, err := m.cards.Remove(id); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	m.decks.each(func(d *types.Deck) { d.RemoveCard(id) })
	return nil
}

// AddTagToCard attaches the tag named tagName to the card, creating the tag
// first if no tag has that name. Attaching a tag the card already carries is
// a no-op.
func (m *Memory) AddTagToCard(cardID types.CardID, tagName string) (types.TagID, Outcome, error) {
	name, err := normalizeName(types.KindTag, tagName)
	if err != nil {
		return types.TagID{}, Found, fmt.Errorf("tag card: %w", err)
	}
	card, ok := m.cards.lookup(cardID)
	if !ok {
		return types.TagID{}, Found, fmt.Errorf("tag card: %w", m.cards.notFound(cardID))
	}
	tag, outcome := m.resolveTag(name)
	card.AddTag(tag.TagID)
	return tag.TagID, outcome, nil
}

// RemoveTagFromCard detaches a tag from a card. Detaching a tag that is not
// attached is a no-op.
func (m *Memory) RemoveTagFromCard(cardID types.CardID, tagID types.TagID) error {
	card, ok := m.cards.lookup(cardID)
	if !ok {
		return fmt.Errorf("untag card: %w", m.cards.notFound(cardID))
	}
	if !m.tags.Contains(tagID) {
		return fmt.Errorf("untag card: %w", m.tags.notFound(tagID))
	}
	card.RemoveTag(tagID)
	return nil
}

// AddCardToDeck appends the card to the first deck named deckName, creating
// the deck if none exists. Adding a card the deck already holds is a no-op.
func (m *Memory) AddCardToDeck(deckName string, cardID types.CardID) (types.DeckID, Outcome, error) {
	name, err := normalizeName(types.KindDeck, deckName)
	if err != nil {
		return types.DeckID{}, Found, fmt.Errorf("add card to deck: %w", err)
	}
	if !m.cards.Contains(cardID) {
		return types.DeckID{}, Found, fmt.Errorf("add card to deck: %w", m.cards.notFound(cardID))
	}
	deck, outcome := m.resolveDeck(name)
	deck.AddCard(cardID)
	return deck.DeckID, outcome, nil
}

// AddTagToDeck attaches the tag named tagName to the first deck named
// deckName. Either entity is created when missing.
func (m *Memory) AddTagToDeck(deckName, tagName string) (DeckTagging, error) {
	dName, err := normalizeName(types.KindDeck, deckName)
	if err != nil {
		return DeckTagging{}, fmt.Errorf("tag deck: %w", err)
	}
	tName, err := normalizeName(types.KindTag, tagName)
	if err != nil {
		return DeckTagging{}, fmt.Errorf("tag deck: %w", err)
	}
	deck, deckOutcome := m.resolveDeck(dName)
	tag, tagOutcome := m.resolveTag(tName)
	deck.AddTag(tag.TagID)
	return DeckTagging{
		DeckID:      deck.DeckID,
		DeckOutcome: deckOutcome,
		TagID:       tag.TagID,
		TagOutcome:  tagOutcome,
	}, nil
}

// RemoveCardFromDeck drops a card from a deck without deleting the card.
func (m *Memory) RemoveCardFromDeck(deckID types.DeckID, cardID types.CardID) error {
	deck, ok := m.decks.lookup(deckID)
	if !ok {
		return fmt.Errorf("remove card from deck: %w", m.decks.notFound(deckID))
	}
	if !m.cards.Contains(cardID) {
		return fmt.Errorf("remove card from deck: %w", m.cards.notFound(cardID))
	}
	deck.RemoveCard(cardID)
	return nil
}

// RemoveTagFromDeck detaches a tag from a deck without deleting the tag.
func (m *Memory) RemoveTagFromDeck(deckID types.DeckID, tagID types.TagID) error {
	deck, ok := m.decks.lookup(deckID)
	if !ok {
		return fmt.Errorf("untag deck: %w", m.decks.notFound(deckID))
	}
	if !m.tags.Contains(tagID) {
		return fmt.Errorf("untag deck: %w", m.tags.notFound(tagID))
	}
	deck.RemoveTag(tagID)
	return nil
}

// DeleteTag removes a tag and detaches it from every card and deck.
func (m *Memory) DeleteTag(id types.TagID) error {
	if _, err := m.tags.Remove(id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	m.cards.each(func(c *types.Card) { c.RemoveTag(id) })
	m.decks.each(func(d *types.Deck) { d.RemoveTag(id) })
	return nil
}

// DeleteDeck removes a deck. Its cards and tags are left in place.
func (m *Memory) DeleteDeck(id types.DeckID) error {
	if _, err := m.decks.Remove(id); err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	return nil
}

// RenameDeck renames the first deck named oldName. Another deck may already
// use newName.
func (m *Memory) RenameDeck(oldName, newName string) error {
	from, err := normalizeName(types.KindDeck, oldName)
	if err != nil {
		return fmt.Errorf("rename deck: %w", err)
	}
	to, err := normalizeName(types.KindDeck, newName)
	if err != nil {
		return fmt.Errorf("rename deck: %w", err)
	}
	deck, ok := m.decks.lookupName(from)
	if !ok {
		return fmt.Errorf("rename deck: %w", types.NewNotFound(types.KindDeck, from))
	}
	deck.Name = to
	return nil
}

// RenameTag renames the tag named oldName. Returns ErrDuplicateName if a
// different tag already uses newName.
func (m *Memory) RenameTag(oldName, newName string) error {
	from, err := normalizeName(types.KindTag, oldName)
	if err != nil {
		return fmt.Errorf("rename tag: %w", err)
	}
	to, err := normalizeName(types.KindTag, newName)
	if err != nil {
		return fmt.Errorf("rename tag: %w", err)
	}
	tag, ok := m.tags.lookupName(from)
	if !ok {
		return fmt.Errorf("rename tag: %w", types.NewNotFound(types.KindTag, from))
	}
	if other, ok := m.tags.lookupName(to); ok && other.TagID != tag.TagID {
		return fmt.Errorf("rename tag %q to %q: %w", from, to, types.ErrDuplicateName)
	}
	tag.Name = to
	return nil
}

// Cards returns copies of all cards in insertion order.
func (m *Memory) Cards() []types.Card { return m.cards.List() }

// Tags returns copies of all tags in insertion order.
func (m *Memory) Tags() []types.Tag { return m.tags.List() }

// Decks returns copies of all decks in insertion order.
func (m *Memory) Decks() []types.Deck { return m.decks.List() }

// Card returns a copy of the card with the given identifier.
func (m *Memory) Card(id types.CardID) (types.Card, error) { return m.cards.Get(id) }

// Tag returns a copy of the tag with the given identifier.
func (m *Memory) Tag(id types.TagID) (types.Tag, error) { return m.tags.Get(id) }

// Deck returns a copy of the deck with the given identifier.
func (m *Memory) Deck(id types.DeckID) (types.Deck, error) { return m.decks.Get(id) }

// FindTag returns the tag with the given name.
func (m *Memory) FindTag(name string) (types.Tag, error) {
	n, err := normalizeName(types.KindTag, name)
	if err != nil {
		return types.Tag{}, err
	}
	return m.tags.FindByName(n)
}

// FindDeck returns the first deck in insertion order with the given name.
func (m *Memory) FindDeck(name string) (types.Deck, error) {
	n, err := normalizeName(types.KindDeck, name)
	if err != nil {
		return types.Deck{}, err
	}
	return m.decks.FindByName(n)
}

// CardAt returns the card at a 1-based position in insertion order, the way
// card listings number them.
func (m *Memory) CardAt(index int) (types.Card, error) {
	if index < 1 || index > m.cards.Size() {
		return types.Card{}, fmt.Errorf("card %d of %d: %w", index, m.cards.Size(), types.ErrIndexOutOfRange)
	}
	return m.cards.Get(m.cards.order[index-1])
}

// TagsOf returns the tags attached to a card in attachment order.
func (m *Memory) TagsOf(cardID types.CardID) ([]types.Tag, error) {
	card, ok := m.cards.lookup(cardID)
	if !ok {
		return nil, m.cards.notFound(cardID)
	}
	out := make([]types.Tag, 0, len(card.Tags))
	for _, id := range card.Tags {
		out = append(out, m.mustTag(id))
	}
	return out, nil
}

// CardsInDeck returns the cards of a deck in deck order.
func (m *Memory) CardsInDeck(deckID types.DeckID) ([]types.Card, error) {
	deck, ok := m.decks.lookup(deckID)
	if !ok {
		return nil, m.decks.notFound(deckID)
	}
	out := make([]types.Card, 0, len(deck.Cards))
	for _, id := range deck.Cards {
		c, ok := m.cards.lookup(id)
		if !ok {
			panic(fmt.Sprintf("memory: deck %s references missing card %s", deckID, id))
		}
		out = append(out, c.Clone())
	}
	return out, nil
}

// DecksForCard returns every deck holding the card. Cards do not record their
// decks, so the inverse is computed by scanning.
func (m *Memory) DecksForCard(cardID types.CardID) ([]types.Deck, error) {
	if !m.cards.Contains(cardID) {
		return nil, m.cards.notFound(cardID)
	}
	var out []types.Deck
	m.decks.each(func(d *types.Deck) {
		if d.HasCard(cardID) {
			out = append(out, d.Clone())
		}
	})
	return out, nil
}

// CardsWithTag returns every card carrying the tag, in card order.
func (m *Memory) CardsWithTag(tagID types.TagID) ([]types.Card, error) {
	if !m.tags.Contains(tagID) {
		return nil, m.tags.notFound(tagID)
	}
	var out []types.Card
	m.cards.each(func(c *types.Card) {
		if c.HasTag(tagID) {
			out = append(out, c.Clone())
		}
	})
	return out, nil
}

// resolveTag returns the tag named name, creating it when absent. name must
// already be normalized.
func (m *Memory) resolveTag(name string) (*types.Tag, Outcome) {
	if t, ok := m.tags.lookupName(name); ok {
		return t, Found
	}
	t := types.NewTag(name)
	if err := m.tags.Insert(t); err != nil {
		panic(fmt.Sprintf("memory: inserting new tag %q: %v", name, err))
	}
	return t, Created
}

// resolveDeck returns the first deck named name, creating it when absent.
func (m *Memory) resolveDeck(name string) (*types.Deck, Outcome) {
	if d, ok := m.decks.lookupName(name); ok {
		return d, Found
	}
	d := types.NewDeck(name)
	if err := m.decks.Insert(d); err != nil {
		panic(fmt.Sprintf("memory: inserting new deck %q: %v", name, err))
	}
	return d, Created
}

func (m *Memory) mustInsertCard(c *types.Card) {
	if err := m.cards.Insert(c); err != nil {
		panic(fmt.Sprintf("memory: inserting new card: %v", err))
	}
}

func (m *Memory) mustTag(id types.TagID) types.Tag {
	t, ok := m.tags.lookup(id)
	if !ok {
		panic(fmt.Sprintf("memory: dangling tag reference %s", id))
	}
	return t.Clone()
}
