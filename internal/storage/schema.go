package storage

// Schema DDL for the SQLite backend. Positions preserve insertion order.
// Referential integrity is checked by the shared document validation on
// load, so the tables carry no foreign keys.
const (
	createMeta = `CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

	createCards = `CREATE TABLE IF NOT EXISTS cards (
    card_id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL
);`

	createTags = `CREATE TABLE IF NOT EXISTS tags (
    tag_id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    name TEXT NOT NULL
);`

	createDecks = `CREATE TABLE IF NOT EXISTS decks (
    deck_id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    name TEXT NOT NULL
);`

	createCardTags = `CREATE TABLE IF NOT EXISTS card_tags (
    card_id TEXT NOT NULL,
    tag_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (card_id, position)
);`

	createDeckCards = `CREATE TABLE IF NOT EXISTS deck_cards (
    deck_id TEXT NOT NULL,
    card_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (deck_id, position)
);`

	createDeckTags = `CREATE TABLE IF NOT EXISTS deck_tags (
    deck_id TEXT NOT NULL,
    tag_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (deck_id, position)
);`
)

const (
	idxCardTagsTag   = `CREATE INDEX IF NOT EXISTS idx_card_tags_tag ON card_tags(tag_id);`
	idxDeckCardsCard = `CREATE INDEX IF NOT EXISTS idx_deck_cards_card ON deck_cards(card_id);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createMeta,
	createCards,
	createTags,
	createDecks,
	createCardTags,
	createDeckCards,
	createDeckTags,
	idxCardTagsTag,
	idxDeckCardsCard,
}

// dataTables lists the tables cleared before each save.
var dataTables = []string{"cards", "tags", "decks", "card_tags", "deck_cards", "deck_tags"}

const metaFormatVersion = "format_version"
