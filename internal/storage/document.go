// Package storage persists a memory.Memory. The JSON codec defines the save
// document; backends decide where the document (or its rows) live.
package storage

// formatVersion is written to every document and required on load.
const formatVersion = 1

// Record structures that mirror the save document. Pointer and slice fields
// are required so that a missing field can be told apart from an empty one.

// document is the top-level save document.
type document struct {
	Version *int         `json:"version" validate:"required"`
	Cards   []cardRecord `json:"cards" validate:"required,dive"`
	Tags    []tagRecord  `json:"tags" validate:"required,dive"`
	Decks   []deckRecord `json:"decks" validate:"required,dive"`
}

// cardRecord represents a card. Decks is derived from the deck records and
// is written for readers of the file; when present on load it must agree
// with the decks that list the card.
type cardRecord struct {
	UUID     *string  `json:"uuid" validate:"required"`
	Question *string  `json:"question" validate:"required"`
	Answer   *string  `json:"answer" validate:"required"`
	Tags     []string `json:"tags" validate:"required"`
	Decks    []string `json:"decks,omitempty"`
}

// tagRecord represents a tag.
type tagRecord struct {
	UUID *string `json:"uuid" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

// deckRecord represents a deck.
type deckRecord struct {
	UUID  *string  `json:"uuid" validate:"required"`
	Name  *string  `json:"name" validate:"required"`
	Cards []string `json:"cards" validate:"required"`
	Tags  []string `json:"tags" validate:"required"`
}
