package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MHMJerry/BackTest-ZZ800/internal/id"
)

// SQLiteJournal stores every run of the simulator in one database. Each
// journal instance represents a single run, identified by a fresh ULID.
type SQLiteJournal struct {
	db    *sql.DB
	runID string
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db, runID: id.New()}, nil
}

// RunID returns the ULID keying this run's rows.
func (j *SQLiteJournal) RunID() string { return j.runID }

func (j *SQLiteJournal) RecordDay(d DailySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO days
		(run_id, date, total_asset, cash, long_holding, short_holding, short_margin, long_fee, short_fee)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, d.Date.String(), d.TotalAsset, d.Cash,
		d.LongHolding, d.ShortHolding, d.ShortMargin, d.LongFee, d.ShortFee,
	)
	return err
}

func (j *SQLiteJournal) RecordLot(l LotRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO lots
		(lot_id, run_id, stock, price, units, real_value, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.New(), j.runID, l.Stock, l.Price, l.Units, l.Real, l.Date.String(),
	)
	return err
}

func (j *SQLiteJournal) RecordRun(r RunSummary) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, start_date, end_date, days, capital, hedge_ratio, final_asset, final_cash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, time.Now().UTC(), r.Start.String(), r.End.String(),
		r.Days, r.Capital, r.HedgeRatio, r.FinalAsset, r.FinalCash,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
