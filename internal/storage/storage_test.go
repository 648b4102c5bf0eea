package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/pkg/types"
)

func sampleMemory(t *testing.T) *memory.Memory {
	t.Helper()
	m := memory.New()
	c1 := m.AddCard("fdfds", "ffffffghgg")
	c2 := m.AddCard("hund", "dog")
	_, _, err := m.AddTagToCard(c1, "foo")
	require.NoError(t, err)
	_, _, err = m.AddTagToCard(c2, "nouns")
	require.NoError(t, err)
	_, _, err = m.AddCardToDeck("german", c2)
	require.NoError(t, err)
	_, _, err = m.AddCardToDeck("german", c1)
	require.NoError(t, err)
	_, err = m.AddTagToDeck("german", "foo")
	require.NoError(t, err)
	return m
}

func openBackend(t *testing.T, backend string) Storage {
	t.Helper()
	s, err := Open(types.Config{Backend: backend, DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(types.Config{Backend: "redis"}, nil)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = Open(types.Config{}, nil)
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestOpenSelectsBackendFile(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(types.Config{Backend: types.BackendJSON, DataDir: dir}, nil)
	require.NoError(t, err)
	require.IsType(t, &JSONStorage{}, s)
	assert.Equal(t, filepath.Join(dir, JSONFileName), s.(*JSONStorage).Path())

	s, err = Open(types.Config{Backend: types.BackendSQLite, DataDir: dir}, nil)
	require.NoError(t, err)
	require.IsType(t, &SQLiteStorage{}, s)
	assert.Equal(t, filepath.Join(dir, SQLiteFileName), s.(*SQLiteStorage).Path())
}

func TestBackendsRoundTrip(t *testing.T) {
	for _, backend := range []string{types.BackendJSON, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			s := openBackend(t, backend)

			ok, err := s.Exists()
			require.NoError(t, err)
			assert.False(t, ok)

			m, err := LoadOrInit(s)
			require.NoError(t, err)
			assert.Empty(t, m.Cards())

			original := sampleMemory(t)
			require.NoError(t, s.Save(original))

			ok, err = s.Exists()
			require.NoError(t, err)
			assert.True(t, ok)

			loaded, err := LoadOrInit(s)
			require.NoError(t, err)
			assert.Equal(t, original.Cards(), loaded.Cards())
			assert.Equal(t, original.Tags(), loaded.Tags())
			assert.Equal(t, original.Decks(), loaded.Decks())
		})
	}
}

func TestBackendsOverwritePreviousState(t *testing.T) {
	for _, backend := range []string{types.BackendJSON, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			s := openBackend(t, backend)
			m := sampleMemory(t)
			require.NoError(t, s.Save(m))

			first, err := m.CardAt(1)
			require.NoError(t, err)
			require.NoError(t, m.DeleteCard(first.CardID))
			require.NoError(t, s.Save(m))

			loaded, err := s.Load()
			require.NoError(t, err)
			assert.Len(t, loaded.Cards(), 1)
			deck, err := loaded.FindDeck("german")
			require.NoError(t, err)
			assert.Len(t, deck.Cards, 1)
		})
	}
}

func TestJSONStorageRejectsCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"garbage", "not json"},
		{"dangling reference", `{"version": 1, "cards": [], "tags": [], "decks": [{"uuid": "` + deckUUID + `", "name": "d", "cards": ["` + cardUUID + `"], "tags": []}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, JSONFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadOrInit(NewJSONStorage(path, nil))
			assert.ErrorIs(t, err, types.ErrStorageCorrupted)
		})
	}
}

func TestJSONStorageSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONStorage(filepath.Join(dir, "nested", JSONFileName), nil)
	require.NoError(t, s.Save(sampleMemory(t)))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, JSONFileName, entries[0].Name())
}

func TestSQLiteStorageRejectsCorruptDatabase(t *testing.T) {
	t.Run("not a database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), SQLiteFileName)
		require.NoError(t, os.WriteFile(path, []byte("definitely not sqlite, just some text padding the header out"), 0o644))

		s := NewSQLiteStorage(path, nil)
		defer s.Close()
		_, err := LoadOrInit(s)
		assert.ErrorIs(t, err, types.ErrStorageCorrupted)
	})

	t.Run("dangling deck card", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), SQLiteFileName)
		s := NewSQLiteStorage(path, nil)
		defer s.Close()
		require.NoError(t, s.Save(sampleMemory(t)))

		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		_, err = db.Exec(`DELETE FROM cards WHERE position = 0`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = s.Load()
		assert.ErrorIs(t, err, types.ErrStorageCorrupted)
	})

	t.Run("link row for unknown owner", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), SQLiteFileName)
		s := NewSQLiteStorage(path, nil)
		defer s.Close()
		require.NoError(t, s.Save(memory.New()))

		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO card_tags (card_id, tag_id, position) VALUES (?, ?, 0)`, cardUUID, tagUUID)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = s.Load()
		assert.ErrorIs(t, err, types.ErrStorageCorrupted)
	})

	t.Run("missing format version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), SQLiteFileName)
		s := NewSQLiteStorage(path, nil)
		defer s.Close()
		require.NoError(t, s.Save(memory.New()))

		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		_, err = db.Exec(`DELETE FROM meta`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = s.Load()
		assert.ErrorIs(t, err, types.ErrStorageCorrupted)
	})
}

func TestSQLiteStorageCloseIsIdempotent(t *testing.T) {
	s := NewSQLiteStorage(filepath.Join(t.TempDir(), SQLiteFileName), nil)
	require.NoError(t, s.Save(memory.New()))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
