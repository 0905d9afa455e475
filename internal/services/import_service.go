package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"partypay/internal/amqp"
	"partypay/internal/core"
	"partypay/internal/directory"
	"partypay/internal/excel"
	"partypay/internal/ledger"
	"partypay/internal/log"
)

// MasterPublisher queues a master collection for asynchronous ledger sync.
type MasterPublisher interface {
	PublishMasterSync(ctx context.Context, msg *amqp.MasterSyncMessage) error
}

// MasterSource supplies party masters from somewhere other than an uploaded
// file, such as a Google Sheet.
type MasterSource interface {
	ReadPartyMasters(ctx context.Context) ([]core.PartyMaster, []string, error)
}

// ImportOutcome reports what one import did. The local save always happens;
// the ledger sync and queue publish are best-effort and their failures are
// reported here rather than failing the import.
type ImportOutcome struct {
	Masters       []core.PartyMaster `json:"masters"`
	ImportedCount int                `json:"importedCount"`
	Warnings      []string           `json:"warnings,omitempty"`
	LedgerSynced  bool               `json:"ledgerSynced"`
	LedgerError   string             `json:"ledgerError,omitempty"`
	Queued        bool               `json:"queued"`
	QueueError    string             `json:"queueError,omitempty"`
}

// ImportService runs the reconciliation pipeline: parse, save to the local
// directory, then fan out to the ledger backend and the sync queue.
type ImportService struct {
	directory   *directory.Store
	masters     ledger.MasterStore
	publisher   MasterPublisher
	concurrency int
	logger      *log.Logger
}

// NewImportService wires the pipeline. masters and publisher may each be nil
// when the deployment has no ledger sync or no queue.
func NewImportService(dir *directory.Store, masters ledger.MasterStore, publisher MasterPublisher, concurrency int, logger *log.Logger) *ImportService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ImportService{
		directory:   dir,
		masters:     masters,
		publisher:   publisher,
		concurrency: concurrency,
		logger:      logger.WithComponent(log.ComponentImport),
	}
}

// ImportFile parses an uploaded spreadsheet and applies the result. Parse
// failures return the parser's warnings alongside the error so the caller can
// show both.
func (s *ImportService) ImportFile(ctx context.Context, data []byte) (*ImportOutcome, error) {
	res, err := excel.Parse(data)
	if err != nil {
		out := &ImportOutcome{}
		if res != nil {
			out.Warnings = res.Warnings
		}
		return out, err
	}
	return s.apply(ctx, res.Masters, res.Warnings), nil
}

// ImportFromSource pulls masters from an external source and applies them.
func (s *ImportService) ImportFromSource(ctx context.Context, src MasterSource) (*ImportOutcome, error) {
	masters, warnings, err := src.ReadPartyMasters(ctx)
	if err != nil {
		return &ImportOutcome{Warnings: warnings}, fmt.Errorf("read master source: %w", err)
	}
	if len(masters) == 0 {
		return &ImportOutcome{Warnings: warnings}, excel.ErrNoValidRows
	}
	return s.apply(ctx, masters, warnings), nil
}

// apply is the dual-write: the local directory first, then the remote sinks
// concurrently. Sink failures never undo the local save.
func (s *ImportService) apply(ctx context.Context, masters []core.PartyMaster, warnings []string) *ImportOutcome {
	s.directory.Save(masters)

	out := &ImportOutcome{
		Masters:       masters,
		ImportedCount: len(masters),
		Warnings:      warnings,
	}

	named := mastersToNamed(masters)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	if s.masters != nil {
		g.Go(func() error {
			err := s.masters.UpdateMasters(gctx, named)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out.LedgerError = ledger.SanitizeError(err)
				s.logger.WarnContext(gctx, "Ledger master sync failed, import saved locally",
					log.FieldError, err,
					log.FieldCount, len(named))
				return nil
			}
			out.LedgerSynced = true
			return nil
		})
	}

	if s.publisher != nil {
		msg := amqp.NewMasterSyncMessage(named)
		g.Go(func() error {
			err := s.publisher.PublishMasterSync(gctx, msg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out.QueueError = ledger.SanitizeError(err)
				s.logger.WarnContext(gctx, "Master sync publish failed",
					log.FieldError, err,
					log.FieldBatchID, msg.BatchID)
				return nil
			}
			out.Queued = true
			return nil
		})
	}

	g.Wait()

	s.logger.InfoContext(ctx, "Import completed",
		log.FieldOperation, log.OpImport,
		log.FieldCount, out.ImportedCount,
		"warnings", len(out.Warnings),
		"ledger_synced", out.LedgerSynced,
		"queued", out.Queued)
	return out
}

// LookupMaster resolves a party by name. The local directory is consulted
// first; on a miss the ledger backend is asked, so parties imported elsewhere
// still resolve.
func (s *ImportService) LookupMaster(ctx context.Context, name string) (core.PartyMaster, bool, error) {
	if m, ok := s.directory.Find(name); ok {
		return m, true, nil
	}
	if s.masters == nil {
		return core.PartyMaster{}, false, nil
	}
	named, ok, err := s.masters.LookupMaster(ctx, name)
	if err != nil {
		return core.PartyMaster{}, false, fmt.Errorf("lookup master %q: %w", name, err)
	}
	if !ok {
		return core.PartyMaster{}, false, nil
	}
	return namedToMaster(named), true, nil
}

// Masters returns the full local directory collection.
func (s *ImportService) Masters() []core.PartyMaster {
	return s.directory.Load()
}
