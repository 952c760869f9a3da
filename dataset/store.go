package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// Conventional file names inside the data directory. Each may also exist as
// an .xz-compressed variant.
const (
	FileAdjustedOpen = "openPF.csv"
	FileRawOpen      = "openP.csv"
	FileFutureOpen   = "futureOpen.csv"
	FileRiskFree     = "risk_free.csv"
	FileCirculating  = "cValue.csv"
)

// Risk-free column names. Values on disk are percentages and are divided by
// 100 at load.
const (
	riskFreeDailyCol   = "daily"
	riskFreeMonthlyCol = "monthly"
)

// Store implements market.Oracle over the loaded tables. Read-only and
// immutable for the duration of a run.
type Store struct {
	adjusted    *Table
	raw         *Table
	future      *Table
	riskFree    *Table
	circulating *Table
}

// LoadOptions controls how the input directory is read.
type LoadOptions struct {
	// ForwardFillMaxStale bounds how many rows a forward-filled equity price
	// may be carried. <= 0 removes the bound. Futures prices and rates are
	// never filled.
	ForwardFillMaxStale int
}

// Load reads the five input tables from dir. A .zip path is extracted first
// and the bundled directory used in its place. Equity prices and circulating
// values are forward-filled (an explicit transform, not a hidden default);
// cells before a series' first observation stay missing.
func Load(dir string, opts LoadOptions) (*Store, error) {
	if strings.HasSuffix(dir, ".zip") {
		extracted, err := ExtractArchive(dir)
		if err != nil {
			return nil, err
		}
		dir = extracted
	}

	adjusted, err := readDirTable(dir, FileAdjustedOpen)
	if err != nil {
		return nil, err
	}
	raw, err := readDirTable(dir, FileRawOpen)
	if err != nil {
		return nil, err
	}
	future, err := readDirTable(dir, FileFutureOpen)
	if err != nil {
		return nil, err
	}
	riskFree, err := readDirTable(dir, FileRiskFree)
	if err != nil {
		return nil, err
	}
	circulating, err := readDirTable(dir, FileCirculating)
	if err != nil {
		return nil, err
	}

	return &Store{
		adjusted:    adjusted.ForwardFill(opts.ForwardFillMaxStale),
		raw:         raw.ForwardFill(opts.ForwardFillMaxStale),
		future:      future,
		riskFree:    normalizePercent(riskFree),
		circulating: circulating.ForwardFill(opts.ForwardFillMaxStale),
	}, nil
}

// readDirTable opens dir/name, falling back to dir/name.xz.
func readDirTable(dir, name string) (*Table, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return ReadTable(path)
	}
	xzPath := path + ".xz"
	if _, err := os.Stat(xzPath); err == nil {
		return ReadTable(xzPath)
	}
	return nil, fmt.Errorf("dataset: neither %s nor %s.xz found", path, path)
}

func normalizePercent(t *Table) *Table {
	cols := make(map[string][]float64, len(t.cols))
	for code, col := range t.cols {
		scaled := make([]float64, len(col))
		for i, v := range col {
			if math.IsNaN(v) {
				scaled[i] = v
			} else {
				scaled[i] = v / 100
			}
		}
		cols[code] = scaled
	}
	return newTable(t.dates, cols)
}

// Timeline returns the trading dates of the circulating-value table within
// [start, end]; that table defines which days the market traded.
func (s *Store) Timeline(start, end market.Date) []market.Date {
	return s.circulating.DatesBetween(start, end)
}

func (s *Store) lookup(t *Table, series market.Series, date market.Date, code string) (float64, error) {
	v, ok := t.Value(date, code)
	if !ok {
		return 0, &market.MissingDataError{Series: series, Date: date, Code: code}
	}
	return v, nil
}

func (s *Store) AdjustedOpen(date market.Date, code string) (float64, error) {
	return s.lookup(s.adjusted, market.SeriesAdjustedOpen, date, code)
}

func (s *Store) RawOpen(date market.Date, code string) (float64, error) {
	return s.lookup(s.raw, market.SeriesRawOpen, date, code)
}

func (s *Store) FutureOpen(date market.Date, symbol string) (float64, error) {
	return s.lookup(s.future, market.SeriesFutureOpen, date, symbol)
}

func (s *Store) RiskFreeDaily(date market.Date) (float64, error) {
	v, ok := s.riskFree.Value(date, riskFreeDailyCol)
	if !ok {
		return 0, &market.MissingDataError{Series: market.SeriesRiskFree, Date: date, Code: riskFreeDailyCol}
	}
	return v, nil
}

func (s *Store) RiskFreeMonthly(date market.Date) (float64, error) {
	v, ok := s.riskFree.Value(date, riskFreeMonthlyCol)
	if !ok {
		return 0, &market.MissingDataError{Series: market.SeriesRiskFree, Date: date, Code: riskFreeMonthlyCol}
	}
	return v, nil
}

func (s *Store) CirculatingValue(date market.Date, code string) (float64, error) {
	return s.lookup(s.circulating, market.SeriesCirculating, date, code)
}
