// Package memory provides an in-memory ledger backend for development and
// tests. Data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"partypay/internal/core"
	"partypay/internal/ledger"
)

// Store keeps entries and masters in process memory. It satisfies
// ledger.Store.
type Store struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]ledger.StoredEntry
	masters []ledger.NamedMaster
}

func New() *Store {
	return &Store{entries: make(map[string]ledger.StoredEntry)}
}

// CreateEntry stores the record under the caller-minted id.
func (s *Store) CreateEntry(_ context.Context, id string, rec ledger.EntryRecord) (ledger.StoredEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return ledger.StoredEntry{}, fmt.Errorf("ledger: entry id is required")
	}
	entry := ledger.StoredEntry{ID: id, EntryRecord: rec}
	if _, exists := s.entries[id]; !exists {
		s.order = append(s.order, id)
	}
	s.entries[id] = entry
	return entry, nil
}

func (s *Store) UpdateEntry(_ context.Context, id string, rec ledger.EntryRecord) (ledger.StoredEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ledger.StoredEntry{}, fmt.Errorf("%w: entry %s", ledger.ErrNotFound, id)
	}
	entry := ledger.StoredEntry{ID: id, EntryRecord: rec}
	s.entries[id] = entry
	return entry, nil
}

func (s *Store) DeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: entry %s", ledger.ErrNotFound, id)
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// AllEntries returns entries in creation order.
func (s *Store) AllEntries(_ context.Context) ([]ledger.StoredEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.StoredEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out, nil
}

func (s *Store) LookupMaster(_ context.Context, partyName string) (ledger.NamedMaster, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := core.NormalizeKey(partyName)
	for _, m := range s.masters {
		if core.NormalizeKey(m.PartyName) == key {
			return m, true, nil
		}
	}
	return ledger.NamedMaster{}, false, nil
}

func (s *Store) UpdateMasters(_ context.Context, masters []ledger.NamedMaster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.masters = append([]ledger.NamedMaster(nil), masters...)
	return nil
}
