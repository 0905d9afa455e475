// Package directory persists the party master lookup table in a local JSON
// file. It is the durable, network-independent side of the import dual-write:
// the ledger service keeps its own copy of the masters, which may diverge.
package directory

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"partypay/internal/core"
)

// Store owns one JSON file holding the full master collection. Save replaces
// the collection wholesale; there is no per-record update at this layer.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists the masters, replacing any previous collection. Persistence
// failures (quota, permissions) are logged and swallowed: callers must not
// assume the write succeeded, and a failed local write never blocks the rest
// of an import.
func (s *Store) Save(masters []core.PartyMaster) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(masters, "", "  ")
	if err != nil {
		slog.Error("Failed to encode party masters", "error", err, "path", s.path)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		slog.Error("Failed to create directory store parent", "error", err, "path", s.path)
		return
	}

	// Write-then-rename so a crash mid-write leaves the old collection intact.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		slog.Error("Failed to write party masters", "error", err, "path", tmp)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		slog.Error("Failed to replace party masters file", "error", err, "path", s.path)
	}
}

// Load returns the persisted masters. A missing file or one that fails to
// parse yields an empty collection; corrupt data is treated as absent, not as
// an error.
func (s *Store) Load() []core.PartyMaster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() []core.PartyMaster {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read party masters", "error", err, "path", s.path)
		}
		return []core.PartyMaster{}
	}
	var masters []core.PartyMaster
	if err := json.Unmarshal(data, &masters); err != nil {
		slog.Warn("Discarding unparseable party masters file", "error", err, "path", s.path)
		return []core.PartyMaster{}
	}
	if masters == nil {
		return []core.PartyMaster{}
	}
	return masters
}

// Find looks a party up by name. Both the query and the stored names are
// normalized (trim + case fold) before comparing; the first match wins.
func (s *Store) Find(name string) (core.PartyMaster, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := core.NormalizeKey(name)
	for _, m := range s.loadLocked() {
		if core.NormalizeKey(m.PartyName) == key {
			return m, true
		}
	}
	return core.PartyMaster{}, false
}
