package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ledgerpro/internal/amqp"
	"ledgerpro/internal/core"
	"ledgerpro/internal/sheets"
)

// RecordSource is the read side of storage the worker needs.
type RecordSource interface {
	GetRecord(ctx context.Context, id int64) (core.Record, error)
	ListLedgers(ctx context.Context) ([]core.Ledger, error)
	ListRecords(ctx context.Context, ledgerID int64) ([]core.Record, error)
}

// MirrorWorker copies records from the database into a spreadsheet mirror
// as record events arrive.
type MirrorWorker struct {
	source RecordSource
	mirror sheets.RecordMirror
}

func NewMirrorWorker(source RecordSource, mirror sheets.RecordMirror) *MirrorWorker {
	return &MirrorWorker{source: source, mirror: mirror}
}

// HandleEvent processes a single record event from AMQP. A returned error
// makes the consumer requeue the message.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	slog.InfoContext(ctx, "Processing record event",
		"event_id", ev.EventID,
		"kind", ev.Kind,
		"record_id", ev.RecordID)

	switch ev.Kind {
	case amqp.RecordCreated:
		return w.mirrorCreated(ctx, ev.RecordID)
	case amqp.RecordDeleted:
		removed, err := w.mirror.RemoveRecord(ctx, ev.RecordID)
		if err != nil {
			return fmt.Errorf("remove record %d from mirror: %w", ev.RecordID, err)
		}
		slog.InfoContext(ctx, "Removed mirrored record", "record_id", ev.RecordID, "found", removed)
		return nil
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

func (w *MirrorWorker) mirrorCreated(ctx context.Context, id int64) error {
	rec, err := w.source.GetRecord(ctx, id)
	if errors.Is(err, core.ErrRecordNotFound) {
		// Deleted before the event was consumed; its delete event follows.
		slog.WarnContext(ctx, "Record gone before mirroring, skipping", "record_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get record %d: %w", id, err)
	}

	ref, err := w.mirror.AppendRecord(ctx, rec)
	if err != nil {
		return fmt.Errorf("append record %d to mirror: %w", id, err)
	}
	slog.InfoContext(ctx, "Mirrored record",
		"record_id", rec.ID,
		"ledger_id", rec.LedgerID,
		"sheets_ref", ref)
	return nil
}

// SyncResult counts what a reconciliation pass changed.
type SyncResult struct {
	Appended int
	Removed  int
	Errors   int
}

// StartupSyncCheck reconciles the mirror with the database, recovering
// from events lost while the worker was down. Mirrors that cannot be read
// back are left alone.
func (w *MirrorWorker) StartupSyncCheck(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	reader, ok := w.mirror.(sheets.RecordReader)
	if !ok {
		slog.InfoContext(ctx, "Mirror cannot be listed, skipping startup sync")
		return res, nil
	}

	mirrored, err := reader.ListMirrored(ctx)
	if err != nil {
		return res, fmt.Errorf("list mirrored records: %w", err)
	}
	seen := make(map[int64]bool, len(mirrored))
	for _, r := range mirrored {
		seen[r.ID] = true
	}

	ledgers, err := w.source.ListLedgers(ctx)
	if err != nil {
		return res, fmt.Errorf("list ledgers: %w", err)
	}
	live := make(map[int64]bool)
	for _, l := range ledgers {
		records, err := w.source.ListRecords(ctx, l.ID)
		if err != nil {
			return res, fmt.Errorf("list records of ledger %d: %w", l.ID, err)
		}
		for _, r := range records {
			live[r.ID] = true
			if seen[r.ID] {
				continue
			}
			if _, err := w.mirror.AppendRecord(ctx, r); err != nil {
				slog.ErrorContext(ctx, "Failed to mirror record during startup sync",
					"record_id", r.ID, "error", err)
				res.Errors++
				continue
			}
			res.Appended++
		}
	}

	for id := range seen {
		if live[id] {
			continue
		}
		if _, err := w.mirror.RemoveRecord(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to remove stale mirrored record",
				"record_id", id, "error", err)
			res.Errors++
			continue
		}
		res.Removed++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"mirrored", len(mirrored),
		"appended", res.Appended,
		"removed", res.Removed,
		"errors", res.Errors)
	return res, nil
}
