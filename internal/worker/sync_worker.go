// Package worker applies queued master sync batches to a ledger backend.
package worker

import (
	"context"
	"fmt"
	"time"

	"partypay/internal/amqp"
	"partypay/internal/ledger"
	"partypay/internal/log"
)

// SyncWorker consumes master sync messages and replaces the ledger's party
// master collection with each batch.
type SyncWorker struct {
	masters ledger.MasterStore
	timeout time.Duration
	logger  *log.Logger
}

func NewSyncWorker(masters ledger.MasterStore, timeout time.Duration, logger *log.Logger) *SyncWorker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SyncWorker{
		masters: masters,
		timeout: timeout,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleMasterSync applies one batch. Batches are idempotent because each one
// replaces the collection wholesale, so redelivery is harmless.
func (w *SyncWorker) HandleMasterSync(ctx context.Context, msg *amqp.MasterSyncMessage) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	w.logger.InfoContext(ctx, "Applying master sync batch",
		log.FieldBatchID, msg.BatchID,
		log.FieldCount, len(msg.Masters),
		"published_at", msg.Timestamp.Format(time.RFC3339))

	if err := w.masters.UpdateMasters(ctx, msg.Masters); err != nil {
		return fmt.Errorf("update masters for batch %s: %w", msg.BatchID, err)
	}

	w.logger.InfoContext(ctx, "Master sync batch applied",
		log.FieldBatchID, msg.BatchID,
		log.FieldCount, len(msg.Masters))
	return nil
}
