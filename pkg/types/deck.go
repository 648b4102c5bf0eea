package types

import "slices"

// Deck groups cards and tags. A deck is a view over cards, not their owner:
// deleting a deck leaves its cards and tags in place. Deck names need not be
// unique; name lookups resolve to the first deck in insertion order.
type Deck struct {
	DeckID DeckID   `json:"uuid"`
	Name   string   `json:"name"`
	Cards  []CardID `json:"cards"`
	Tags   []TagID  `json:"tags"`
}

// NewDeck returns an empty deck with a freshly generated identifier.
func NewDeck(name string) *Deck {
	return &Deck{
		DeckID: NewDeckID(),
		Name:   name,
		Cards:  []CardID{},
		Tags:   []TagID{},
	}
}

// HasCard reports whether the card is in the deck.
func (d *Deck) HasCard(id CardID) bool {
	return slices.Contains(d.Cards, id)
}

// AddCard appends a card. Returns false if it was already present.
func (d *Deck) AddCard(id CardID) bool {
	var added bool
	d.Cards, added = appendUnique(d.Cards, id)
	return added
}

// RemoveCard removes a card. Returns false if it was not present.
func (d *Deck) RemoveCard(id CardID) bool {
	var removed bool
	d.Cards, removed = removeValue(d.Cards, id)
	return removed
}

// HasTag reports whether the tag is attached to the deck.
func (d *Deck) HasTag(id TagID) bool {
	return slices.Contains(d.Tags, id)
}

// AddTag attaches a tag. Returns false if it was already attached.
func (d *Deck) AddTag(id TagID) bool {
	var added bool
	d.Tags, added = appendUnique(d.Tags, id)
	return added
}

// RemoveTag detaches a tag. Returns false if it was not attached.
func (d *Deck) RemoveTag(id TagID) bool {
	var removed bool
	d.Tags, removed = removeValue(d.Tags, id)
	return removed
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (d *Deck) Clone() Deck {
	cp := *d
	cp.Cards = slices.Clone(d.Cards)
	if cp.Cards == nil {
		cp.Cards = []CardID{}
	}
	cp.Tags = slices.Clone(d.Tags)
	if cp.Tags == nil {
		cp.Tags = []TagID{}
	}
	return cp
}
