package memory

import (
	"fmt"

	"github.com/mesh-intelligence/inka/pkg/types"
)

// Collection is an identifier-indexed set of one entity type that remembers
// insertion order. It knows nothing about other collections; cross-collection
// cleanup on removal is the caller's job.
type Collection[K comparable, E any] struct {
	kind        types.Kind
	key         func(*E) K
	name        func(*E) string // nil when the entity has no name
	clone       func(*E) E
	uniqueNames bool

	items map[K]*E
	order []K
}

// CardStore holds cards.
type CardStore = Collection[types.CardID, types.Card]

// TagStore holds tags; names are unique.
type TagStore = Collection[types.TagID, types.Tag]

// DeckStore holds decks; names may repeat.
type DeckStore = Collection[types.DeckID, types.Deck]

// NewCardStore returns an empty card collection.
func NewCardStore() *CardStore {
	return &CardStore{
		kind:  types.KindCard,
		key:   func(c *types.Card) types.CardID { return c.CardID },
		clone: (*types.Card).Clone,
		items: make(map[types.CardID]*types.Card),
	}
}

// NewTagStore returns an empty tag collection.
func NewTagStore() *TagStore {
	return &TagStore{
		kind:        types.KindTag,
		key:         func(t *types.Tag) types.TagID { return t.TagID },
		name:        func(t *types.Tag) string { return t.Name },
		clone:       (*types.Tag).Clone,
		uniqueNames: true,
		items:       make(map[types.TagID]*types.Tag),
	}
}

// NewDeckStore returns an empty deck collection.
func NewDeckStore() *DeckStore {
	return &DeckStore{
		kind:  types.KindDeck,
		key:   func(d *types.Deck) types.DeckID { return d.DeckID },
		name:  func(d *types.Deck) string { return d.Name },
		clone: (*types.Deck).Clone,
		items: make(map[types.DeckID]*types.Deck),
	}
}

// Insert adds an entity. Returns ErrDuplicateIdentifier if the identifier is
// already present and, for collections with unique names, ErrDuplicateName if
// another entity already uses the name. The collection takes ownership of e.
func (c *Collection[K, E]) Insert(e *E) error {
	k := c.key(e)
	if _, ok := c.items[k]; ok {
		return fmt.Errorf("insert %s %v: %w", c.kind, k, types.ErrDuplicateIdentifier)
	}
	if c.uniqueNames {
		if _, ok := c.lookupName(c.name(e)); ok {
			return fmt.Errorf("insert %s %q: %w", c.kind, c.name(e), types.ErrDuplicateName)
		}
	}
	c.items[k] = e
	c.order = append(c.order, k)
	return nil
}

// Get returns a copy of the entity with the given identifier.
func (c *Collection[K, E]) Get(id K) (E, error) {
	e, ok := c.items[id]
	if !ok {
		var zero E
		return zero, c.notFound(id)
	}
	return c.clone(e), nil
}

// Contains reports whether the identifier is present.
func (c *Collection[K, E]) Contains(id K) bool {
	_, ok := c.items[id]
	return ok
}

// FindByName returns a copy of the first entity in insertion order whose name
// matches exactly. Collections without names never match.
func (c *Collection[K, E]) FindByName(name string) (E, error) {
	e, ok := c.lookupName(name)
	if !ok {
		var zero E
		return zero, types.NewNotFound(c.kind, name)
	}
	return c.clone(e), nil
}

// Remove deletes the entity and returns it.
func (c *Collection[K, E]) Remove(id K) (E, error) {
	e, ok := c.items[id]
	if !ok {
		var zero E
		return zero, c.notFound(id)
	}
	delete(c.items, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return *e, nil
		}
	}
	panic(fmt.Sprintf("memory: %s %v indexed but missing from order", c.kind, id))
}

// List returns copies of all entities in insertion order.
func (c *Collection[K, E]) List() []E {
	out := make([]E, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.clone(c.mustLookup(k)))
	}
	return out
}

// Size returns the number of entities.
func (c *Collection[K, E]) Size() int {
	return len(c.order)
}

// lookup returns the stored entity for in-place mutation by Memory.
func (c *Collection[K, E]) lookup(id K) (*E, bool) {
	e, ok := c.items[id]
	return e, ok
}

func (c *Collection[K, E]) lookupName(name string) (*E, bool) {
	if c.name == nil {
		return nil, false
	}
	for _, k := range c.order {
		e := c.mustLookup(k)
		if c.name(e) == name {
			return e, true
		}
	}
	return nil, false
}

// each visits stored entities in insertion order.
func (c *Collection[K, E]) each(fn func(*E)) {
	for _, k := range c.order {
		fn(c.mustLookup(k))
	}
}

func (c *Collection[K, E]) mustLookup(k K) *E {
	e, ok := c.items[k]
	if !ok {
		panic(fmt.Sprintf("memory: %s %v in order but not indexed", c.kind, k))
	}
	return e
}

func (c *Collection[K, E]) notFound(id K) error {
	return types.NewNotFound(c.kind, fmt.Sprint(id))
}
