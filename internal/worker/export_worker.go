// Package worker mirrors gas records from SQLite into a CSV log file
// that other tools (spreadsheets, backups) can consume directly.
package worker

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"fuelog/internal/amqp"
	"fuelog/internal/core"
)

// ExportStore is the slice of the repository the worker needs.
type ExportStore interface {
	GetRecord(ctx context.Context, id int64) (core.GasRecord, error)
	ListActiveRecords(ctx context.Context) ([]core.GasRecord, error)
	PendingExport(ctx context.Context, limit int) ([]core.GasRecord, error)
	RecordExported(ctx context.Context, id int64) (bool, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
}

var csvHeader = []string{"date", "odometer", "gallons", "cost", "full_tank", "hide_calc"}

// ExportWorker handles mirroring of gas records from SQLite to the CSV file
type ExportWorker struct {
	storage   ExportStore
	csvPath   string
	batchSize int
}

func NewExportWorker(storage ExportStore, csvPath string, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		csvPath:   csvPath,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single record sync message from AMQP.
// First-time records are appended; records already in the file cause a
// full rewrite so updates stay idempotent.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"record_id", msg.ID,
		"version", msg.Version)

	rec, err := w.storage.GetRecord(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get gas record from storage: %w", err)
	}

	exported, err := w.storage.RecordExported(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("check export state: %w", err)
	}
	if exported {
		// The record is already in the file. A re-sync means it changed
		// (or the pending sweep beat the message), so the file is
		// rewritten; appending would duplicate the row.
		records, err := w.storage.ListActiveRecords(ctx)
		if err != nil {
			return fmt.Errorf("list active records: %w", err)
		}
		if err := w.rewriteCSV(records); err != nil {
			return fmt.Errorf("rewrite export file: %w", err)
		}
		slog.InfoContext(ctx, "Export file rewritten for updated record",
			"record_id", msg.ID,
			"version", msg.Version)
		return nil
	}

	if err := w.exportRecord(ctx, rec); err != nil {
		return fmt.Errorf("export gas record: %w", err)
	}

	return nil
}

// HandleDeleteMessage processes a single record delete message from AMQP.
// CSV files have no row identity to delete by, so the whole file is
// rewritten from the surviving records.
func (w *ExportWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.RecordDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "record_id", msg.ID)

	records, err := w.storage.ListActiveRecords(ctx)
	if err != nil {
		return fmt.Errorf("list active records: %w", err)
	}

	if err := w.rewriteCSV(records); err != nil {
		slog.ErrorContext(ctx, "Failed to rewrite export file after delete",
			"record_id", msg.ID,
			"error", err,
			"timestamp", msg.Timestamp)
		return fmt.Errorf("rewrite export file: %w", err)
	}

	slog.InfoContext(ctx, "Export file rewritten after delete",
		"record_id", msg.ID,
		"remaining", len(records))

	return nil
}

// ProcessPendingRecords exports any records that haven't been mirrored yet.
// This is a backup mechanism in case AMQP messages are lost
func (w *ExportWorker) ProcessPendingRecords(ctx context.Context) error {
	pending, err := w.storage.PendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, rec := range pending {
		if err := w.exportRecord(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to export record", "record_id", rec.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupExportCheck verifies and exports any pending records at worker
// startup. This is useful to recover from missed AMQP messages or worker
// downtime
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	// Get a larger batch for startup check
	pending, err := w.storage.PendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending records for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending records on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, rec := range pending {
		if err := w.exportRecord(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to export record during startup",
				"record_id", rec.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportRecord(ctx context.Context, rec core.GasRecord) error {
	if err := w.appendCSV(rec); err != nil {
		if markErr := w.storage.MarkExportError(ctx, rec.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "record_id", rec.ID, "error", markErr)
		}
		return fmt.Errorf("append to export file: %w", err)
	}

	if err := w.storage.MarkExported(ctx, rec.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as exported", "record_id", rec.ID, "error", err)
		// Don't return error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully exported record",
		"record_id", rec.ID,
		"odometer", rec.Odometer,
		"cost_cents", rec.Cost.Cents,
		"export_path", w.csvPath)

	return nil
}

// appendCSV appends one record to the export file, writing the header
// first when the file is new.
func (w *ExportWorker) appendCSV(rec core.GasRecord) error {
	if err := os.MkdirAll(filepath.Dir(w.csvPath), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	info, err := os.Stat(w.csvPath)
	needHeader := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(w.csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needHeader {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := cw.Write(csvRow(rec)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// rewriteCSV replaces the export file with the given records. The new
// content is written to a temp file and renamed into place so readers
// never see a half-written file.
func (w *ExportWorker) rewriteCSV(records []core.GasRecord) error {
	if err := os.MkdirAll(filepath.Dir(w.csvPath), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.csvPath), ".fuelog-export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(csvRow(rec)); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmp.Name(), w.csvPath)
}

func csvRow(rec core.GasRecord) []string {
	return []string{
		rec.Date.Format("2006-01-02"),
		strconv.FormatInt(rec.Odometer, 10),
		strconv.FormatFloat(rec.Gallons, 'f', 3, 64),
		fmt.Sprintf("%.2f", rec.Cost.Amount()),
		strconv.FormatBool(rec.FullTank),
		strconv.FormatBool(rec.HideCalc),
	}
}
