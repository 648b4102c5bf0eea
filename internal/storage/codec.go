package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/pkg/types"
)

// documentValidator checks required fields, reporting them by JSON name.
var documentValidator = newDocumentValidator()

func newDocumentValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Encode serializes m as an indented JSON document. Records are emitted in
// each collection's insertion order so equal stores produce equal bytes.
func Encode(m *memory.Memory) ([]byte, error) {
	doc := toDocument(m)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a document produced by Encode into a fresh Memory. Every
// failure is a *types.CorruptedError: empty input, malformed JSON, trailing
// content, an unsupported version, missing fields, malformed identifiers,
// duplicate identifiers or tag names, and references to records that are not
// in the document. Unknown fields are ignored.
func Decode(data []byte) (*memory.Memory, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, types.NewCorrupted("document is empty", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, types.NewCorrupted("document is not well-formed", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, types.NewCorrupted("trailing content after document", err)
	}
	return fromDocument(&doc)
}

// fromDocument validates a decoded document and rebuilds the Memory. Backends
// that store rows instead of JSON assemble a document and come through here
// so that every backend rejects the same inputs.
func fromDocument(doc *document) (*memory.Memory, error) {
	if err := documentValidator.Struct(doc); err != nil {
		return nil, types.NewCorrupted(describeValidation(err), err)
	}
	if *doc.Version != formatVersion {
		return nil, types.NewCorrupted(fmt.Sprintf("unsupported format version %d", *doc.Version), nil)
	}

	tags := make([]types.Tag, 0, len(doc.Tags))
	for i, r := range doc.Tags {
		id, err := types.ParseTagID(*r.UUID)
		if err != nil {
			return nil, types.NewCorrupted(fmt.Sprintf("tags[%d].uuid", i), err)
		}
		tags = append(tags, types.Tag{TagID: id, Name: *r.Name})
	}

	cards := make([]types.Card, 0, len(doc.Cards))
	for i, r := range doc.Cards {
		id, err := types.ParseCardID(*r.UUID)
		if err != nil {
			return nil, types.NewCorrupted(fmt.Sprintf("cards[%d].uuid", i), err)
		}
		tagIDs, err := parseAll(r.Tags, types.ParseTagID)
		if err != nil {
			return nil, types.NewCorrupted(fmt.Sprintf("cards[%d].tags", i), err)
		}
		cards = append(cards, types.Card{CardID: id, Question: *r.Question, Answer: *r.Answer, Tags: tagIDs})
	}

	decks := make([]types.Deck, 0, len(doc.Decks))
	for i, r := range doc.Decks {
		id, err := types.ParseDeckID(*r.UUID)
		if err != nil {
			return nil, types.NewCorrupted(fmt.Sprintf("decks[%d].uuid", i), err)
		}
		cardIDs, err := parseAll(r.Cards, types.ParseCardID)
		if err != nil {
			return nil, types.NewCorrupted(fmt.Sprintf("decks[%d].cards", i), err)
		}
		tagIDs, err := parseAll(r.Tags, types.ParseTagID)
		if err != nil {
			return nil, types.NewCorrupted(fmt.Sprintf("decks[%d].tags", i), err)
		}
		decks = append(decks, types.Deck{DeckID: id, Name: *r.Name, Cards: cardIDs, Tags: tagIDs})
	}

	m, err := memory.Restore(cards, tags, decks)
	if err != nil {
		return nil, types.NewCorrupted("inconsistent records", err)
	}
	if err := checkCardDecks(m, doc.Cards); err != nil {
		return nil, err
	}
	return m, nil
}

// checkCardDecks verifies the optional per-card deck lists against the deck
// records, which own the association.
func checkCardDecks(m *memory.Memory, records []cardRecord) error {
	for i, r := range records {
		if r.Decks == nil {
			continue
		}
		cardID, _ := types.ParseCardID(*r.UUID)
		decks, err := m.DecksForCard(cardID)
		if err != nil {
			return types.NewCorrupted(fmt.Sprintf("cards[%d].decks", i), err)
		}
		want := make([]string, 0, len(decks))
		for _, d := range decks {
			want = append(want, d.DeckID.String())
		}
		got := slices.Clone(r.Decks)
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			return types.NewCorrupted(fmt.Sprintf("cards[%d].decks disagrees with deck records", i), nil)
		}
	}
	return nil
}

func parseAll[T any](texts []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(texts))
	for _, s := range texts {
		id, err := parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid document"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.TrimPrefix(fe.Namespace(), "document."))
	}
	return "missing required field " + strings.Join(fields, ", ")
}

func toDocument(m *memory.Memory) document {
	version := formatVersion
	doc := document{
		Version: &version,
		Cards:   make([]cardRecord, 0),
		Tags:    make([]tagRecord, 0),
		Decks:   make([]deckRecord, 0),
	}

	membership := make(map[types.CardID][]string)
	for _, d := range m.Decks() {
		rec := deckRecord{
			UUID:  ptr(d.DeckID.String()),
			Name:  ptr(d.Name),
			Cards: make([]string, 0, len(d.Cards)),
			Tags:  idStrings(d.Tags),
		}
		for _, c := range d.Cards {
			rec.Cards = append(rec.Cards, c.String())
			membership[c] = append(membership[c], d.DeckID.String())
		}
		doc.Decks = append(doc.Decks, rec)
	}
	for _, c := range m.Cards() {
		doc.Cards = append(doc.Cards, cardRecord{
			UUID:     ptr(c.CardID.String()),
			Question: ptr(c.Question),
			Answer:   ptr(c.Answer),
			Tags:     idStrings(c.Tags),
			Decks:    membership[c.CardID],
		})
	}
	for _, t := range m.Tags() {
		doc.Tags = append(doc.Tags, tagRecord{UUID: ptr(t.TagID.String()), Name: ptr(t.Name)})
	}
	return doc
}

func idStrings[K fmt.Stringer](ids []K) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func ptr[T any](v T) *T { return &v }
