package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// open returns a reader for path, decompressing .xz files on the fly.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return f, nil
	}
	xr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &xzReadCloser{Reader: xr, f: f}, nil
}

type xzReadCloser struct {
	*xz.Reader
	f *os.File
}

func (r *xzReadCloser) Close() error { return r.f.Close() }

// ReadTable parses a wide series CSV: header "date,code,code,...", one row
// per trading date in ascending order. Empty cells are missing values.
func ReadTable(path string) (*Table, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("read %s: need a date column and at least one code column", path)
	}
	codes := header[1:]

	var dates []market.Date
	cols := make(map[string][]float64, len(codes))
	for _, code := range codes {
		cols[strings.TrimSpace(code)] = nil
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(row) != len(header) {
			return nil, fmt.Errorf("read %s: row for %s has %d columns, header has %d", path, row[0], len(row), len(header))
		}

		date := market.Date(strings.TrimSpace(row[0]))
		if n := len(dates); n > 0 && date <= dates[n-1] {
			return nil, fmt.Errorf("read %s: dates not strictly increasing at %s", path, date)
		}
		dates = append(dates, date)

		for i, code := range codes {
			cell := strings.TrimSpace(row[i+1])
			v := math.NaN()
			if cell != "" {
				v, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("read %s: bad value %q for %s on %s: %w", path, cell, code, date, err)
				}
			}
			key := strings.TrimSpace(code)
			cols[key] = append(cols[key], v)
		}
	}

	return newTable(dates, cols), nil
}

// ReadWeightSchedule parses the target-weight schedule, wide CSV keyed by
// rebalance date. Only strictly positive weights are kept; a date whose row
// has no positive weight gets no schedule entry at all.
func ReadWeightSchedule(path string) (market.WeightSchedule, error) {
	tbl, err := ReadTable(path)
	if err != nil {
		return nil, err
	}

	sched := make(market.WeightSchedule, len(tbl.dates))
	for _, date := range tbl.dates {
		w := make(market.Weights)
		for code := range tbl.cols {
			if v, ok := tbl.Value(date, code); ok && v > 0 {
				w[code] = v
			}
		}
		if len(w) > 0 {
			sched[date] = w
		}
	}
	return sched, nil
}

// ReadContractSchedule parses the futures rollover/contract-info CSV with
// header "date,symbol,multiplier,margin_rate,fee_rate", ascending by date.
func ReadContractSchedule(path string) (market.ContractSchedule, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	if len(header) != 5 {
		return nil, fmt.Errorf("read %s: want 5 columns (date,symbol,multiplier,margin_rate,fee_rate), got %d", path, len(header))
	}

	var sched market.ContractSchedule
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		spec := market.ContractSpec{
			Effective: market.Date(strings.TrimSpace(row[0])),
			Symbol:    strings.TrimSpace(row[1]),
		}
		if spec.Multiplier, err = strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err != nil {
			return nil, fmt.Errorf("read %s: bad multiplier on %s: %w", path, spec.Effective, err)
		}
		if spec.MarginRate, err = strconv.ParseFloat(strings.TrimSpace(row[3]), 64); err != nil {
			return nil, fmt.Errorf("read %s: bad margin_rate on %s: %w", path, spec.Effective, err)
		}
		if spec.FeeRate, err = strconv.ParseFloat(strings.TrimSpace(row[4]), 64); err != nil {
			return nil, fmt.Errorf("read %s: bad fee_rate on %s: %w", path, spec.Effective, err)
		}

		if n := len(sched); n > 0 && spec.Effective <= sched[n-1].Effective {
			return nil, fmt.Errorf("read %s: effective dates not strictly increasing at %s", path, spec.Effective)
		}
		sched = append(sched, spec)
	}
	if len(sched) == 0 {
		return nil, fmt.Errorf("read %s: empty contract schedule", path)
	}
	return sched, nil
}
