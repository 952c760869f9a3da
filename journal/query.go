package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// RunRow mirrors one row of the runs table.
type RunRow struct {
	RunID   string
	Created time.Time
	RunSummary
}

// ListRuns returns all recorded runs, newest first.
func (j *SQLiteJournal) ListRuns() ([]RunRow, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, start_date, end_date, days, capital, hedge_ratio, final_asset, final_cash
		FROM runs
		ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		var start, end string
		if err := rows.Scan(
			&r.RunID,
			&r.Created,
			&start,
			&end,
			&r.Days,
			&r.Capital,
			&r.HedgeRatio,
			&r.FinalAsset,
			&r.FinalCash,
		); err != nil {
			return nil, err
		}
		r.Start = market.Date(start)
		r.End = market.Date(end)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns a single run by ID.
func (j *SQLiteJournal) GetRun(runID string) (RunRow, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created, start_date, end_date, days, capital, hedge_ratio, final_asset, final_cash
		FROM runs
		WHERE run_id = ?`, runID)

	var r RunRow
	var start, end string
	err := row.Scan(
		&r.RunID,
		&r.Created,
		&start,
		&end,
		&r.Days,
		&r.Capital,
		&r.HedgeRatio,
		&r.FinalAsset,
		&r.FinalCash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRow{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRow{}, err
	}
	r.Start = market.Date(start)
	r.End = market.Date(end)
	return r, nil
}

// ListDays returns a run's daily snapshots within [start, end], in date
// order. Empty bounds mean unbounded.
func (j *SQLiteJournal) ListDays(runID string, start, end market.Date) ([]DailySnapshot, error) {
	if end.IsZero() {
		end = market.Date("9999-12-31")
	}
	rows, err := j.db.Query(`
		SELECT date, total_asset, cash, long_holding, short_holding, short_margin, long_fee, short_fee
		FROM days
		WHERE run_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, runID, start.String(), end.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailySnapshot
	for rows.Next() {
		var d DailySnapshot
		var date string
		if err := rows.Scan(
			&date,
			&d.TotalAsset,
			&d.Cash,
			&d.LongHolding,
			&d.ShortHolding,
			&d.ShortMargin,
			&d.LongFee,
			&d.ShortFee,
		); err != nil {
			return nil, err
		}
		d.Date = market.Date(date)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListLots returns a run's lot ledger rows, optionally restricted to one
// date, ordered by date then stock.
func (j *SQLiteJournal) ListLots(runID string, date market.Date) ([]LotRecord, error) {
	q := `
		SELECT stock, price, units, real_value, date
		FROM lots
		WHERE run_id = ?`
	args := []any{runID}
	if !date.IsZero() {
		q += ` AND date = ?`
		args = append(args, date.String())
	}
	q += ` ORDER BY date ASC, stock ASC`

	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LotRecord
	for rows.Next() {
		var l LotRecord
		var d string
		if err := rows.Scan(&l.Stock, &l.Price, &l.Units, &l.Real, &d); err != nil {
			return nil, err
		}
		l.Date = market.Date(d)
		out = append(out, l)
	}
	return out, rows.Err()
}
