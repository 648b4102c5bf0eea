package cli

import (
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/inka/internal/memory"
	"github.com/mesh-intelligence/inka/internal/storage"
	"github.com/mesh-intelligence/inka/pkg/types"
)

// withMemory loads the store, runs fn against it and saves when fn reports a
// change. Nothing is saved when fn fails.
func (a *app) withMemory(fn func(m *memory.Memory) (changed bool, err error)) error {
	s, err := storage.Open(a.storage, a.logger)
	if err != nil {
		return sysError(err)
	}
	defer s.Close()

	m, err := storage.LoadOrInit(s)
	if err != nil {
		return err
	}
	changed, err := fn(m)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.Save(m); err != nil {
		return sysError(err)
	}
	return nil
}

// readMemory loads the store for a command that does not modify it.
func (a *app) readMemory(fn func(m *memory.Memory) error) error {
	return a.withMemory(func(m *memory.Memory) (bool, error) {
		return false, fn(m)
	})
}

// resolveCard accepts a 1-based position or a card id.
func resolveCard(m *memory.Memory, ref string) (types.Card, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		c, err := m.CardAt(n)
		if err != nil {
			return types.Card{}, fmt.Errorf("card %s: %w", ref, err)
		}
		return c, nil
	}
	id, err := types.ParseCardID(ref)
	if err != nil {
		return types.Card{}, fmt.Errorf("card %q is neither a position nor an id: %w", ref, err)
	}
	return m.Card(id)
}
