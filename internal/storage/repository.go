// Package storage persists gas records in SQLite and derives the
// monthly trip summaries the report layer consumes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fuelog/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateRecord inserts a fill-up and returns its ID.
func (r *SQLiteRepository) CreateRecord(ctx context.Context, rec core.GasRecord) (int64, error) {
	row, err := r.queries.CreateGasRecord(ctx, CreateGasRecordParams{
		RecordedOn: rec.Date.Format(dateLayout),
		Year:       int64(rec.Date.Year()),
		Month:      int64(rec.Date.Month()),
		Odometer:   rec.Odometer,
		Gallons:    rec.Gallons,
		CostCents:  rec.Cost.Cents,
		FullTank:   rec.FullTank,
	})
	if err != nil {
		return 0, fmt.Errorf("create gas record: %w", err)
	}

	slog.InfoContext(ctx, "Gas record saved",
		"record_id", row.ID,
		"odometer", row.Odometer,
		"gallons", row.Gallons,
		"cost_cents", row.CostCents,
		"full_tank", row.FullTank)

	return row.ID, nil
}

// GetRecord returns one record by ID.
func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (core.GasRecord, error) {
	row, err := r.queries.GetGasRecord(ctx, id)
	if err != nil {
		return core.GasRecord{}, fmt.Errorf("get gas record: %w", err)
	}
	return toCore(row), nil
}

// ListMonth returns the month's records sorted by odometer, with fuel
// economy calculations derived across the set.
func (r *SQLiteRepository) ListMonth(ctx context.Context, year, month int) ([]core.GasRecord, error) {
	rows, err := r.queries.ListGasRecordsByMonth(ctx, int64(year), int64(month))
	if err != nil {
		return nil, fmt.Errorf("list gas records by month: %w", err)
	}

	records := make([]core.GasRecord, len(rows))
	for i, row := range rows {
		records[i] = toCore(row)
	}
	core.Recalculate(records)
	return records, nil
}

// ListActiveRecords returns every non-deleted record, sorted by
// odometer, for full export rewrites.
func (r *SQLiteRepository) ListActiveRecords(ctx context.Context) ([]core.GasRecord, error) {
	rows, err := r.queries.ListActiveGasRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active gas records: %w", err)
	}

	records := make([]core.GasRecord, len(rows))
	for i, row := range rows {
		records[i] = toCore(row)
	}
	return records, nil
}

// MonthSummary returns the precomputed totals for one month.
func (r *SQLiteRepository) MonthSummary(ctx context.Context, year, month int) (core.TripSummary, error) {
	totals, err := r.queries.GetMonthTotals(ctx, int64(year), int64(month))
	if err != nil {
		return core.TripSummary{}, fmt.Errorf("get month totals: %w", err)
	}
	return core.TripSummary{
		Distance: totals.Distance,
		Cost:     core.Money{Cents: totals.CostCents},
		Gallons:  totals.Gallons,
	}, nil
}

// DeleteRecord soft deletes a record.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, id int64) error {
	if err := r.queries.SoftDeleteGasRecord(ctx, id); err != nil {
		return fmt.Errorf("soft delete gas record: %w", err)
	}
	slog.InfoContext(ctx, "Gas record deleted", "record_id", id)
	return nil
}

// SetCalculationHidden flips whether the record's fuel economy counts
// toward statistics.
func (r *SQLiteRepository) SetCalculationHidden(ctx context.Context, id int64, hidden bool) error {
	if err := r.queries.SetCalcHidden(ctx, id, hidden); err != nil {
		return fmt.Errorf("set calculation hidden: %w", err)
	}
	slog.InfoContext(ctx, "Gas record visibility updated", "record_id", id, "hidden", hidden)
	return nil
}

// PendingExport lists records awaiting export, oldest first.
func (r *SQLiteRepository) PendingExport(ctx context.Context, limit int) ([]core.GasRecord, error) {
	rows, err := r.queries.ListPendingExport(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}

	records := make([]core.GasRecord, len(rows))
	for i, row := range rows {
		records[i] = toCore(row)
	}
	return records, nil
}

// RecordExported reports whether the record is already present in the
// export file. A re-sync for such a record means its content changed,
// so the worker must rewrite instead of appending a duplicate row.
func (r *SQLiteRepository) RecordExported(ctx context.Context, id int64) (bool, error) {
	state, err := r.queries.GetExportState(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get export state: %w", err)
	}
	return state == "exported", nil
}

// MarkExported marks a record as written to the export file.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if err := r.queries.MarkExported(ctx, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return nil
}

// MarkExportError marks a record whose export failed.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if err := r.queries.MarkExportError(ctx, id); err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	slog.WarnContext(ctx, "Gas record marked with export error", "record_id", id)
	return nil
}

func toCore(row GasRecordRow) core.GasRecord {
	date, err := time.Parse(dateLayout, row.RecordedOn)
	if err != nil {
		// recorded_on is always written by us in dateLayout; fall back
		// to the indexed year/month rather than failing the read.
		date = time.Date(int(row.Year), time.Month(row.Month), 1, 0, 0, 0, 0, time.UTC)
	}
	return core.GasRecord{
		ID:       row.ID,
		Date:     core.Date{Time: date},
		Odometer: row.Odometer,
		Gallons:  row.Gallons,
		Cost:     core.Money{Cents: row.CostCents},
		FullTank: row.FullTank,
		HideCalc: row.HideCalc,
		Version:  row.Version,
	}
}
