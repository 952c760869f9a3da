// Package dataset loads the historical input tables and serves them to the
// simulator as a market.Oracle. Tables are wide CSV: first column the trading
// date, one column per instrument code. Files ending in .xz are decompressed
// transparently.
package dataset

import (
	"math"

	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// Table is one date-by-instrument series. Missing cells are NaN internally;
// lookups report them as absent rather than zero.
type Table struct {
	dates   []market.Date
	dateIdx map[market.Date]int
	cols    map[string][]float64 // code -> values aligned to dates
}

func newTable(dates []market.Date, cols map[string][]float64) *Table {
	idx := make(map[market.Date]int, len(dates))
	for i, d := range dates {
		idx[d] = i
	}
	return &Table{dates: dates, dateIdx: idx, cols: cols}
}

// Dates returns the table's trading dates in ascending order.
func (t *Table) Dates() []market.Date { return t.dates }

// DatesBetween returns the dates within [start, end].
func (t *Table) DatesBetween(start, end market.Date) []market.Date {
	var out []market.Date
	for _, d := range t.dates {
		if d < start {
			continue
		}
		if d > end {
			break
		}
		out = append(out, d)
	}
	return out
}

// Value looks up one cell. ok is false when the date or code is unknown or
// the cell is missing.
func (t *Table) Value(date market.Date, code string) (v float64, ok bool) {
	i, ok := t.dateIdx[date]
	if !ok {
		return 0, false
	}
	col, ok := t.cols[code]
	if !ok {
		return 0, false
	}
	v = col[i]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ForwardFill returns a copy with missing cells filled from the most recent
// prior observation, as long as that observation is at most maxStale rows
// old. maxStale <= 0 removes the bound. Cells before a column's first
// observation stay missing, so lookups there still fail loudly.
func (t *Table) ForwardFill(maxStale int) *Table {
	cols := make(map[string][]float64, len(t.cols))
	for code, col := range t.cols {
		filled := make([]float64, len(col))
		lastIdx := -1
		for i, v := range col {
			if !math.IsNaN(v) {
				lastIdx = i
				filled[i] = v
				continue
			}
			if lastIdx >= 0 && (maxStale <= 0 || i-lastIdx <= maxStale) {
				filled[i] = col[lastIdx]
			} else {
				filled[i] = math.NaN()
			}
		}
		cols[code] = filled
	}
	return newTable(t.dates, cols)
}
