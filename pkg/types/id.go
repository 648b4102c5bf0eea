package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind tags an identifier with the entity type it names.
type Kind string

// Identifier kinds.
const (
	KindCard Kind = "card"
	KindTag  Kind = "tag"
	KindDeck Kind = "deck"
)

// ID is an opaque 128-bit identifier carrying its kind. Two IDs are equal only
// when both the kind and the value match, so a tag ID never equals a card ID
// even if the underlying bits coincide.
type ID struct {
	kind  Kind
	value uuid.UUID
}

func newID(kind Kind) ID {
	return ID{kind: kind, value: uuid.New()}
}

// ParseID parses the canonical lowercase hyphenated form of an identifier of
// the given kind. Returns ErrMalformedIdentifier for anything else, including
// upper-case hex, braces and urn prefixes that uuid.Parse would tolerate, and
// the nil UUID, which is never assigned.
func ParseID(text string, kind Kind) (ID, error) {
	switch kind {
	case KindCard, KindTag, KindDeck:
	default:
		return ID{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedIdentifier, kind)
	}
	u, err := uuid.Parse(text)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %s id %q: %v", ErrMalformedIdentifier, kind, text, err)
	}
	if u.String() != text {
		return ID{}, fmt.Errorf("%w: %s id %q is not canonical", ErrMalformedIdentifier, kind, text)
	}
	if u == uuid.Nil {
		return ID{}, fmt.Errorf("%w: %s id is the nil uuid", ErrMalformedIdentifier, kind)
	}
	return ID{kind: kind, value: u}, nil
}

// Kind returns the entity kind this identifier names.
func (id ID) Kind() Kind { return id.kind }

// IsZero reports whether id carries no value, whatever its kind.
func (id ID) IsZero() bool { return id.value == uuid.Nil }

// Equal reports whether id and other name the same entity.
func (id ID) Equal(other ID) bool { return id == other }

// String returns the canonical text form.
func (id ID) String() string { return id.value.String() }

// MarshalText renders the canonical text form for JSON output.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// CardID identifies a Card.
type CardID struct{ ID }

// TagID identifies a Tag.
type TagID struct{ ID }

// DeckID identifies a Deck.
type DeckID struct{ ID }

// NewCardID returns a fresh card identifier.
func NewCardID() CardID { return CardID{newID(KindCard)} }

// NewTagID returns a fresh tag identifier.
func NewTagID() TagID { return TagID{newID(KindTag)} }

// NewDeckID returns a fresh deck identifier.
func NewDeckID() DeckID { return DeckID{newID(KindDeck)} }

// ParseCardID parses a card identifier.
func ParseCardID(text string) (CardID, error) {
	id, err := ParseID(text, KindCard)
	return CardID{id}, err
}

// ParseTagID parses a tag identifier.
func ParseTagID(text string) (TagID, error) {
	id, err := ParseID(text, KindTag)
	return TagID{id}, err
}

// ParseDeckID parses a deck identifier.
func ParseDeckID(text string) (DeckID, error) {
	id, err := ParseID(text, KindDeck)
	return DeckID{id}, err
}
