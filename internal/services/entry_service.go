// Package services orchestrates the domain operations: the cached entry
// synchronizer over a ledger backend and the xlsx import pipeline with its
// dual-write fan-out.
package services

import (
	"context"
	"fmt"
	"time"

	"partypay/internal/cache"
	"partypay/internal/core"
	"partypay/internal/ledger"
	"partypay/internal/log"
)

const (
	entriesCacheKey = "all-entries"
	entriesCacheTTL = 30 * time.Second
	reportCacheSize = 64
)

// EntryService is the cached synchronizer over a ledger backend. Reads go
// through an in-process cache; every successful mutation flushes it so the
// next read refetches.
type EntryService struct {
	store   ledger.Store
	entries *cache.Store[[]core.Entry]
	reports *cache.Store[core.PartyReport]
	logger  *log.Logger
}

func NewEntryService(store ledger.Store, logger *log.Logger) *EntryService {
	return &EntryService{
		store:   store,
		entries: cache.New[[]core.Entry](1, entriesCacheTTL),
		reports: cache.New[core.PartyReport](reportCacheSize, entriesCacheTTL),
		logger:  logger.WithComponent(log.ComponentEntries),
	}
}

// Caches exposes the service's caches for janitor registration.
func (s *EntryService) Caches() []cache.Purger {
	return []cache.Purger{s.entries, s.reports}
}

// List returns all entries, served from cache when fresh.
func (s *EntryService) List(ctx context.Context) ([]core.Entry, error) {
	if cached, ok := s.entries.Get(entriesCacheKey); ok {
		return cached, nil
	}

	stored, err := s.store.AllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}

	out := make([]core.Entry, len(stored))
	for i, rec := range stored {
		out[i] = recordToEntry(rec)
	}
	s.entries.Put(entriesCacheKey, out)

	s.logger.DebugContext(ctx, "Entries fetched from ledger",
		log.FieldOperation, log.OpList,
		log.FieldCount, len(out))
	return out, nil
}

// Create validates and records a new entry. The id is minted here, before
// the backend call, so the client stays the id authority; CreatedAt is
// stamped when the caller left it empty.
func (s *EntryService) Create(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	if e.CreatedAt == "" {
		e.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	stored, err := s.store.CreateEntry(ctx, core.NewEntryID(), entryToRecord(e))
	if err != nil {
		return core.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	s.flush()

	created := recordToEntry(stored)
	s.logger.InfoContext(ctx, "Entry created",
		log.FieldOperation, log.OpCreate,
		log.FieldEntryID, created.ID,
		log.FieldPartyName, created.PartyName)
	return created, nil
}

// Update validates and replaces an existing entry.
func (s *EntryService) Update(ctx context.Context, id string, e core.Entry) (core.Entry, error) {
	if id == "" {
		return core.Entry{}, fmt.Errorf("%w: entry id is required", core.ErrValidation)
	}
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	stored, err := s.store.UpdateEntry(ctx, id, entryToRecord(e))
	if err != nil {
		return core.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	s.flush()

	updated := recordToEntry(stored)
	s.logger.InfoContext(ctx, "Entry updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldEntryID, id)
	return updated, nil
}

// Delete removes an entry from the ledger.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: entry id is required", core.ErrValidation)
	}
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.flush()

	s.logger.InfoContext(ctx, "Entry deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldEntryID, id)
	return nil
}

// Report aggregates a single party's history. Reports are cached per
// normalized party name and flushed with the entry cache.
func (s *EntryService) Report(ctx context.Context, partyName string) (core.PartyReport, error) {
	key := core.NormalizeKey(partyName)
	if cached, ok := s.reports.Get(key); ok {
		return cached, nil
	}

	entries, err := s.List(ctx)
	if err != nil {
		return core.PartyReport{}, err
	}
	report := core.BuildPartyReport(entries, partyName)
	s.reports.Put(key, report)
	return report, nil
}

// flush drops all cached reads. Stale data must never survive a mutation.
func (s *EntryService) flush() {
	s.entries.Flush()
	s.reports.Flush()
}
