// Package worker consumes ledger change events and records summary snapshots.
package worker

import (
	"context"
	"fmt"
	"time"

	"moneybot/internal/amqp"
	"moneybot/internal/analytics"
	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/store"
)

// SnapshotWriter persists a computed summary. *storage.SQLiteRepository satisfies it.
type SnapshotWriter interface {
	SaveSnapshot(ctx context.Context, userID string, s analytics.Summary, at time.Time) (int64, error)
}

// SnapshotWorker recomputes a user's summary whenever their ledger changes.
type SnapshotWorker struct {
	ledger    store.TransactionLister
	snapshots SnapshotWriter
	logger    *log.Logger
	now       func() time.Time
}

func NewSnapshotWorker(ledger store.TransactionLister, snapshots SnapshotWriter, logger *log.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		ledger:    ledger,
		snapshots: snapshots,
		logger:    logger.WithComponent(log.ComponentWorker),
		now:       time.Now,
	}
}

// HandleEvent processes a single transaction event from AMQP. Returning an
// error requeues the message.
func (w *SnapshotWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	w.logger.InfoContext(ctx, "Processing transaction event",
		"type", event.Type,
		log.FieldTransactionID, event.TransactionID,
		log.FieldUserID, event.UserID)

	_, err := w.Snapshot(ctx, event.UserID)
	return err
}

// Snapshot recomputes and stores the summary for userID as of today.
func (w *SnapshotWorker) Snapshot(ctx context.Context, userID string) (analytics.Summary, error) {
	txs, err := w.ledger.ListByUser(ctx, userID)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("list transactions for %s: %w", userID, err)
	}

	now := w.now()
	summary, err := analytics.Summarize(txs, core.DateOf(now))
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("summarize %s: %w", userID, err)
	}

	id, err := w.snapshots.SaveSnapshot(ctx, userID, summary, now)
	if err != nil {
		return analytics.Summary{}, err
	}

	w.logger.InfoContext(ctx, "Summary snapshot stored",
		"snapshot_id", id,
		log.FieldUserID, userID,
		log.FieldCount, summary.TransactionCount,
		"balance_cents", summary.Balance.Cents)
	return summary, nil
}

// StartupSnapshot snapshots each listed user once, logging failures instead of
// returning them so a bad ledger does not keep the worker from starting.
func (w *SnapshotWorker) StartupSnapshot(ctx context.Context, userIDs ...string) {
	ok, failed := 0, 0
	for _, id := range userIDs {
		if _, err := w.Snapshot(ctx, id); err != nil {
			w.logger.ErrorContext(ctx, "Startup snapshot failed", log.FieldUserID, id, log.FieldError, err)
			failed++
			continue
		}
		ok++
	}
	w.logger.InfoContext(ctx, "Startup snapshots completed", "ok", ok, "errors", failed)
}
