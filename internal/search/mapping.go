package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Indexed field names.
const (
	fieldQuestion = "question"
	fieldAnswer   = "answer"
	fieldTags     = "tags"
	fieldDecks    = "decks"
)

// cardDocument is the indexed form of a card.
type cardDocument struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags"`
	Decks    []string `json:"decks"`
}

// buildIndexMapping maps card text with the standard analyzer, which does not
// stem, so cards in any language tokenize the same way. Tag names are
// lowercased but not split. Deck names are exact keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	questionField := bleve.NewTextFieldMapping()
	questionField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(fieldQuestion, questionField)

	answerField := bleve.NewTextFieldMapping()
	answerField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(fieldAnswer, answerField)

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = simple.Name
	docMapping.AddFieldMappingsAt(fieldTags, tagsField)

	decksField := bleve.NewTextFieldMapping()
	decksField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(fieldDecks, decksField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
