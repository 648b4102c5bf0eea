// Package search provides full-text lookup over the cards in a memory.Memory.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/pkg/types"
)

// DefaultLimit caps results when Search is called with a non-positive limit.
const DefaultLimit = 20

// ErrEmptyQuery is returned by Search when the query has no terms.
var ErrEmptyQuery = errors.New("search query is empty")

// Index is an in-memory bleve index over card question, answer, tag names
// and deck names. It is a snapshot: changes to the Memory after NewIndex are
// not reflected.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
}

// Hit is a matching card with its relevance score.
type Hit struct {
	CardID types.CardID
	Score  float64
}

// NewIndex indexes every card in m. A nil logger discards output.
func NewIndex(m *memory.Memory, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for _, c := range m.Cards() {
		doc, err := toDocument(m, c)
		if err != nil {
			index.Close()
			return nil, err
		}
		if err := batch.Index(c.CardID.String(), doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("index card %s: %w", c.CardID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	logger.Debug("built search index", "cards", batch.Size())
	return &Index{index: index, logger: logger}, nil
}

// Search runs query in bleve query-string syntax and returns up to limit
// cards ordered by relevance. Bare terms match question, answer and tag
// text; "tags:foo" and "decks:verbs" restrict to a field.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(query), limit, 0, false)
	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := types.ParseCardID(h.ID)
		if err != nil {
			panic(fmt.Sprintf("search: indexed invalid card id %q", h.ID))
		}
		hits = append(hits, Hit{CardID: id, Score: h.Score})
	}
	i.logger.Debug("search", "query", query, "total", res.Total, "returned", len(hits))
	return hits, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}

func toDocument(m *memory.Memory, c types.Card) (cardDocument, error) {
	tags, err := m.TagsOf(c.CardID)
	if err != nil {
		return cardDocument{}, err
	}
	decks, err := m.DecksForCard(c.CardID)
	if err != nil {
		return cardDocument{}, err
	}
	doc := cardDocument{
		Question: c.Question,
		Answer:   c.Answer,
		Tags:     make([]string, 0, len(tags)),
		Decks:    make([]string, 0, len(decks)),
	}
	for _, t := range tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	for _, d := range decks {
		doc.Decks = append(doc.Decks, d.Name)
	}
	return doc, nil
}
