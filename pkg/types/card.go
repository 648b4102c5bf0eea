package types

import "slices"

// Card is a question/answer flashcard. Tags holds the identifiers of the tags
// attached to the card in the order they were attached, without duplicates.
// Deck membership is not stored on the card; decks own that association.
type Card struct {
	CardID   CardID  `json:"uuid"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Tags     []TagID `json:"tags"`
}

// NewCard returns a card with a freshly generated identifier.
func NewCard(question, answer string) *Card {
	return &Card{
		CardID:   NewCardID(),
		Question: question,
		Answer:   answer,
		Tags:     []TagID{},
	}
}

// HasTag reports whether the tag is attached to the card.
func (c *Card) HasTag(id TagID) bool {
	return slices.Contains(c.Tags, id)
}

// AddTag attaches a tag. Returns false if it was already attached.
func (c *Card) AddTag(id TagID) bool {
	var added bool
	c.Tags, added = appendUnique(c.Tags, id)
	return added
}

// RemoveTag detaches a tag. Returns false if it was not attached.
func (c *Card) RemoveTag(id TagID) bool {
	var removed bool
	c.Tags, removed = removeValue(c.Tags, id)
	return removed
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (c *Card) Clone() Card {
	cp := *c
	cp.Tags = slices.Clone(c.Tags)
	if cp.Tags == nil {
		cp.Tags = []TagID{}
	}
	return cp
}

// appendUnique appends v unless it is already present.
func appendUnique[T comparable](s []T, v T) ([]T, bool) {
	if slices.Contains(s, v) {
		return s, false
	}
	return append(s, v), true
}

// removeValue removes v while preserving the order of the remaining elements.
func removeValue[T comparable](s []T, v T) ([]T, bool) {
	i := slices.Index(s, v)
	if i < 0 {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}
