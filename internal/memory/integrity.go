package memory

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/inka/pkg/types"
)

// Integrity errors reported by CheckIntegrity and Restore.
var (
	ErrDanglingReference  = errors.New("dangling reference")
	ErrDuplicateReference = errors.New("duplicate reference")
	ErrZeroIdentifier     = errors.New("zero identifier")
)

// Restore rebuilds a Memory from previously saved records, keeping the given
// order. It fails on duplicate identifiers, duplicate tag names, zero
// identifiers, blank or non-NFC names, repeated entries in a reference list,
// and references to records that are not part of the input. On failure no
// Memory is returned.
func Restore(cards []types.Card, tags []types.Tag, decks []types.Deck) (*Memory, error) {
	m := New()
	for i := range tags {
		t := tags[i].Clone()
		if t.TagID.IsZero() {
			return nil, fmt.Errorf("tag %d: %w", i, ErrZeroIdentifier)
		}
		if err := checkStoredName(types.KindTag, t.Name); err != nil {
			return nil, fmt.Errorf("tag %d: %w", i, err)
		}
		if err := m.tags.Insert(&t); err != nil {
			return nil, err
		}
	}
	for i := range cards {
		c := cards[i].Clone()
		if c.CardID.IsZero() {
			return nil, fmt.Errorf("card %d: %w", i, ErrZeroIdentifier)
		}
		if err := m.cards.Insert(&c); err != nil {
			return nil, err
		}
	}
	for i := range decks {
		d := decks[i].Clone()
		if d.DeckID.IsZero() {
			return nil, fmt.Errorf("deck %d: %w", i, ErrZeroIdentifier)
		}
		if err := checkStoredName(types.KindDeck, d.Name); err != nil {
			return nil, fmt.Errorf("deck %d: %w", i, err)
		}
		if err := m.decks.Insert(&d); err != nil {
			return nil, err
		}
	}
	if err := m.CheckIntegrity(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkStoredName accepts only names that normalizeName would leave
// unchanged, so every restored name can be looked up again.
func checkStoredName(kind types.Kind, name string) error {
	n, err := normalizeName(kind, name)
	if err != nil {
		return err
	}
	if n != name {
		return fmt.Errorf("%s name %q is not in NFC form: %w", kind, name, types.ErrInvalidName)
	}
	return nil
}

// CheckIntegrity verifies that every identifier referenced from a card or
// deck names an existing record and that no reference list repeats an entry.
// All violations are reported, joined.
func (m *Memory) CheckIntegrity() error {
	var errs []error
	m.cards.each(func(c *types.Card) {
		errs = append(errs, checkRefs(c.Tags, m.tags.Contains, "card", c.CardID.String(), "tag")...)
	})
	m.decks.each(func(d *types.Deck) {
		errs = append(errs, checkRefs(d.Cards, m.cards.Contains, "deck", d.DeckID.String(), "card")...)
		errs = append(errs, checkRefs(d.Tags, m.tags.Contains, "deck", d.DeckID.String(), "tag")...)
	})
	return errors.Join(errs...)
}

func checkRefs[K interface {
	comparable
	fmt.Stringer
}](refs []K, exists func(K) bool, owner, ownerID, target string) []error {
	var errs []error
	seen := make(map[K]bool, len(refs))
	for _, ref := range refs {
		if seen[ref] {
			errs = append(errs, fmt.Errorf("%s %s lists %s %s twice: %w", owner, ownerID, target, ref, ErrDuplicateReference))
			continue
		}
		seen[ref] = true
		if !exists(ref) {
			errs = append(errs, fmt.Errorf("%s %s references missing %s %s: %w", owner, ownerID, target, ref, ErrDanglingReference))
		}
	}
	return errs
}
