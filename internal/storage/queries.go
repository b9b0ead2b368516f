package storage

import (
	"context"
	"database/sql"
)

// DBTX is the statement surface Queries needs; both *sql.DB and *sql.Tx
// satisfy it.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries is the hand-written query layer over the gas_records table.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// GasRecordRow is the database shape of one fill-up.
type GasRecordRow struct {
	ID         int64
	RecordedOn string
	Year       int64
	Month      int64
	Odometer   int64
	Gallons    float64
	CostCents  int64
	FullTank   bool
	HideCalc   bool
	Version    int64
}

const recordColumns = `id, recorded_on, year, month, odometer, gallons, cost_cents, full_tank, hide_calc, version`

func scanRecord(row interface{ Scan(...any) error }) (GasRecordRow, error) {
	var r GasRecordRow
	err := row.Scan(&r.ID, &r.RecordedOn, &r.Year, &r.Month, &r.Odometer,
		&r.Gallons, &r.CostCents, &r.FullTank, &r.HideCalc, &r.Version)
	return r, err
}

type CreateGasRecordParams struct {
	RecordedOn string
	Year       int64
	Month      int64
	Odometer   int64
	Gallons    float64
	CostCents  int64
	FullTank   bool
}

func (q *Queries) CreateGasRecord(ctx context.Context, p CreateGasRecordParams) (GasRecordRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO gas_records (recorded_on, year, month, odometer, gallons, cost_cents, full_tank)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+recordColumns,
		p.RecordedOn, p.Year, p.Month, p.Odometer, p.Gallons, p.CostCents, p.FullTank)
	return scanRecord(row)
}

func (q *Queries) GetGasRecord(ctx context.Context, id int64) (GasRecordRow, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM gas_records
		WHERE id = ? AND deleted_at IS NULL`, id)
	return scanRecord(row)
}

func (q *Queries) ListGasRecordsByMonth(ctx context.Context, year, month int64) ([]GasRecordRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM gas_records
		WHERE year = ? AND month = ? AND deleted_at IS NULL
		ORDER BY odometer ASC, id ASC`, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GasRecordRow
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (q *Queries) ListActiveGasRecords(ctx context.Context) ([]GasRecordRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM gas_records
		WHERE deleted_at IS NULL
		ORDER BY odometer ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GasRecordRow
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// MonthTotalsRow carries the month aggregates the report layer consumes.
type MonthTotalsRow struct {
	Distance  float64
	CostCents int64
	Gallons   float64
}

// GetMonthTotals computes the trip summary for one month. Distance is
// the odometer span of the month's records; a month with fewer than two
// records spans zero distance.
func (q *Queries) GetMonthTotals(ctx context.Context, year, month int64) (MonthTotalsRow, error) {
	var t MonthTotalsRow
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(MAX(odometer) - MIN(odometer), 0),
			COALESCE(SUM(cost_cents), 0),
			COALESCE(SUM(gallons), 0)
		FROM gas_records
		WHERE year = ? AND month = ? AND deleted_at IS NULL`, year, month).
		Scan(&t.Distance, &t.CostCents, &t.Gallons)
	return t, err
}

func (q *Queries) SoftDeleteGasRecord(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE gas_records
		SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, id)
	return err
}

func (q *Queries) SetCalcHidden(ctx context.Context, id int64, hidden bool) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE gas_records
		SET hide_calc = ?, version = version + 1, updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, hidden, id)
	return err
}

func (q *Queries) ListPendingExport(ctx context.Context, limit int64) ([]GasRecordRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM gas_records
		WHERE export_state = 'pending' AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GasRecordRow
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (q *Queries) GetExportState(ctx context.Context, id int64) (string, error) {
	var state string
	err := q.db.QueryRowContext(ctx, `
		SELECT export_state FROM gas_records WHERE id = ?`, id).Scan(&state)
	return state, err
}

func (q *Queries) MarkExported(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE gas_records
		SET export_state = 'exported', updated_at = datetime('now')
		WHERE id = ?`, id)
	return err
}

func (q *Queries) MarkExportError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE gas_records
		SET export_state = 'error', updated_at = datetime('now')
		WHERE id = ?`, id)
	return err
}
