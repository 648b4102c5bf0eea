package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/pkg/types"
)

// SQLiteStorage keeps the store in a SQLite database, one table per record
// kind plus one per association. Save rewrites every table in a single
// transaction.
type SQLiteStorage struct {
	path   string
	logger *slog.Logger
	db     *sql.DB
}

// NewSQLiteStorage returns a SQLiteStorage for the database at path. The
// database is opened on first use. A nil logger discards output.
func NewSQLiteStorage(path string, logger *slog.Logger) *SQLiteStorage {
	return &SQLiteStorage{path: path, logger: discardIfNil(logger)}
}

// Path returns the database location.
func (s *SQLiteStorage) Path() string { return s.path }

func (s *SQLiteStorage) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", s.path, err)
}

func (s *SQLiteStorage) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(s.path), err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	s.db = db
	return db, nil
}

func (s *SQLiteStorage) Load() (*memory.Memory, error) {
	db, err := s.open()
	if err != nil {
		return nil, types.NewCorrupted("opening "+s.path, err)
	}
	doc, err := readDocument(db)
	if err != nil {
		s.logger.Warn("database rejected", "path", s.path, "error", err)
		return nil, types.NewCorrupted("reading "+s.path, err)
	}
	m, err := fromDocument(doc)
	if err != nil {
		s.logger.Warn("database rejected", "path", s.path, "error", err)
		return nil, err
	}
	s.logger.Debug("loaded database", "path", s.path,
		"cards", len(doc.Cards), "tags", len(doc.Tags), "decks", len(doc.Decks))
	return m, nil
}

func (s *SQLiteStorage) Save(m *memory.Memory) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := writeRows(tx, m); err != nil {
		tx.Rollback()
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", s.path, err)
	}
	s.logger.Debug("saved database", "path", s.path)
	return nil
}

// Close releases the database connection. Close is idempotent.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func writeRows(tx *sql.Tx, m *memory.Memory) error {
	for _, table := range dataTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaFormatVersion, strconv.Itoa(formatVersion)); err != nil {
		return fmt.Errorf("writing format version: %w", err)
	}

	for i, c := range m.Cards() {
		if _, err := tx.Exec(`INSERT INTO cards (card_id, position, question, answer) VALUES (?, ?, ?, ?)`,
			c.CardID.String(), i, c.Question, c.Answer); err != nil {
			return fmt.Errorf("inserting card: %w", err)
		}
		if err := insertLinks(tx, `INSERT INTO card_tags (card_id, tag_id, position) VALUES (?, ?, ?)`,
			c.CardID.String(), idStrings(c.Tags)); err != nil {
			return err
		}
	}
	for i, t := range m.Tags() {
		if _, err := tx.Exec(`INSERT INTO tags (tag_id, position, name) VALUES (?, ?, ?)`,
			t.TagID.String(), i, t.Name); err != nil {
			return fmt.Errorf("inserting tag: %w", err)
		}
	}
	for i, d := range m.Decks() {
		if _, err := tx.Exec(`INSERT INTO decks (deck_id, position, name) VALUES (?, ?, ?)`,
			d.DeckID.String(), i, d.Name); err != nil {
			return fmt.Errorf("inserting deck: %w", err)
		}
		if err := insertLinks(tx, `INSERT INTO deck_cards (deck_id, card_id, position) VALUES (?, ?, ?)`,
			d.DeckID.String(), idStrings(d.Cards)); err != nil {
			return err
		}
		if err := insertLinks(tx, `INSERT INTO deck_tags (deck_id, tag_id, position) VALUES (?, ?, ?)`,
			d.DeckID.String(), idStrings(d.Tags)); err != nil {
			return err
		}
	}
	return nil
}

func insertLinks(tx *sql.Tx, stmt, owner string, targets []string) error {
	for i, target := range targets {
		if _, err := tx.Exec(stmt, owner, target, i); err != nil {
			return fmt.Errorf("inserting association: %w", err)
		}
	}
	return nil
}

// readDocument assembles a document from the tables so that it can pass
// through the same validation as a JSON file.
func readDocument(db *sql.DB) (*document, error) {
	doc := &document{}

	var raw string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = ?`, metaFormatVersion).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("reading format version: %w", err)
	default:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("format version %q: %w", raw, err)
		}
		doc.Version = &v
	}

	doc.Cards = make([]cardRecord, 0)
	cardIndex := make(map[string]int)
	err = eachRow(db, `SELECT card_id, question, answer FROM cards ORDER BY position`, func(rows *sql.Rows) error {
		var id, q, a string
		if err := rows.Scan(&id, &q, &a); err != nil {
			return err
		}
		cardIndex[id] = len(doc.Cards)
		doc.Cards = append(doc.Cards, cardRecord{UUID: &id, Question: &q, Answer: &a, Tags: make([]string, 0)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading cards: %w", err)
	}

	doc.Tags = make([]tagRecord, 0)
	err = eachRow(db, `SELECT tag_id, name FROM tags ORDER BY position`, func(rows *sql.Rows) error {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		doc.Tags = append(doc.Tags, tagRecord{UUID: &id, Name: &name})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}

	doc.Decks = make([]deckRecord, 0)
	deckIndex := make(map[string]int)
	err = eachRow(db, `SELECT deck_id, name FROM decks ORDER BY position`, func(rows *sql.Rows) error {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		deckIndex[id] = len(doc.Decks)
		doc.Decks = append(doc.Decks, deckRecord{UUID: &id, Name: &name, Cards: make([]string, 0), Tags: make([]string, 0)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading decks: %w", err)
	}

	err = readLinks(db, "card_tags", "card_id", "tag_id", cardIndex, func(i int, target string) {
		doc.Cards[i].Tags = append(doc.Cards[i].Tags, target)
	})
	if err != nil {
		return nil, err
	}
	err = readLinks(db, "deck_cards", "deck_id", "card_id", deckIndex, func(i int, target string) {
		doc.Decks[i].Cards = append(doc.Decks[i].Cards, target)
	})
	if err != nil {
		return nil, err
	}
	err = readLinks(db, "deck_tags", "deck_id", "tag_id", deckIndex, func(i int, target string) {
		doc.Decks[i].Tags = append(doc.Decks[i].Tags, target)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// readLinks attaches association rows to their owners in position order. A
// row whose owner is not in the owner table is corruption.
func readLinks(db *sql.DB, table, ownerCol, targetCol string, owners map[string]int, attach func(int, string)) error {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s, position`, ownerCol, targetCol, table, ownerCol)
	err := eachRow(db, query, func(rows *sql.Rows) error {
		var owner, target string
		if err := rows.Scan(&owner, &target); err != nil {
			return err
		}
		i, ok := owners[owner]
		if !ok {
			return fmt.Errorf("row for unknown %s %q", ownerCol, owner)
		}
		attach(i, target)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading %s: %w", table, err)
	}
	return nil
}

func eachRow(db *sql.DB, query string, fn func(*sql.Rows) error) error {
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
