// Package worker mirrors the local record store to Google Sheets in
// response to record.added events.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/store"
)

// SheetWriter is the export target. Satisfied by export/sheets.Exporter.
type SheetWriter interface {
	Export(ctx context.Context, records []core.Record) error
}

// SyncWorker reloads the store and rewrites the sheet snapshot. Events
// only signal that something changed; the store stays the source of
// truth, so a lost event is repaired by the next sync.
type SyncWorker struct {
	mu    sync.Mutex
	store store.Loader
	sheet SheetWriter

	lastSync time.Time
}

func NewSyncWorker(s store.Loader, sheet SheetWriter) *SyncWorker {
	return &SyncWorker{
		store: s,
		sheet: sheet,
	}
}

// SyncAll exports the full store snapshot to the sheet.
func (w *SyncWorker) SyncAll(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	records, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	if err := w.sheet.Export(ctx, records); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	w.lastSync = time.Now()
	slog.InfoContext(ctx, "Synced store snapshot to sheet", "records", len(records))
	return nil
}

// HandleRecordAdded reacts to a record.added event with a full resync.
func (w *SyncWorker) HandleRecordAdded(ctx context.Context, msg *amqp.RecordAddedMessage) error {
	slog.DebugContext(ctx, "Record added event received",
		"item", msg.Item, "amount", msg.Amount)
	return w.SyncAll(ctx)
}

// LastSync reports when the most recent successful sync completed.
func (w *SyncWorker) LastSync() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync
}
