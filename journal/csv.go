// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVJournal writes the asset ledger and the lot ledger as two CSV files
// with the same layout the reference result files use.
type CSVJournal struct {
	days   *csv.Writer
	lots   *csv.Writer
	df, lf *os.File
}

func NewCSV(assetPath, lotsPath string) (*CSVJournal, error) {
	df, err := os.Create(assetPath)
	if err != nil {
		return nil, err
	}
	lf, err := os.Create(lotsPath)
	if err != nil {
		df.Close()
		return nil, err
	}

	dw := csv.NewWriter(df)
	lw := csv.NewWriter(lf)

	if err := dw.Write([]string{"date", "total_asset", "cash", "long_holding", "short_holding", "short_margin", "long_fee", "short_fee"}); err != nil {
		return nil, err
	}
	if err := lw.Write([]string{"stock", "price", "n", "real", "date"}); err != nil {
		return nil, err
	}

	dw.Flush()
	if err := dw.Error(); err != nil {
		return nil, err
	}
	lw.Flush()
	if err := lw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{dw, lw, df, lf}, nil
}

func (j *CSVJournal) RecordDay(d DailySnapshot) error {
	err := j.days.Write([]string{
		d.Date.String(),
		f(d.TotalAsset),
		f(d.Cash),
		f(d.LongHolding),
		f(d.ShortHolding),
		f(d.ShortMargin),
		f(d.LongFee),
		f(d.ShortFee),
	})
	if err != nil {
		return err
	}

	j.days.Flush()
	return j.days.Error()
}

func (j *CSVJournal) RecordLot(l LotRecord) error {
	err := j.lots.Write([]string{
		l.Stock,
		f(l.Price),
		f(l.Units),
		f(l.Real),
		l.Date.String(),
	})
	if err != nil {
		return err
	}

	j.lots.Flush()
	return j.lots.Error()
}

// RecordRun is a no-op for CSV output; run metadata only goes to SQLite.
func (j *CSVJournal) RecordRun(RunSummary) error { return nil }

func (j *CSVJournal) Close() error {
	j.days.Flush()
	if err := j.days.Error(); err != nil {
		return err
	}
	j.lots.Flush()
	if err := j.lots.Error(); err != nil {
		return err
	}

	if err := j.df.Close(); err != nil {
		return err
	}
	return j.lf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
