package market

import "fmt"

// Series names one of the input price/rate tables.
type Series string

const (
	SeriesAdjustedOpen Series = "adjusted_open"
	SeriesRawOpen      Series = "raw_open"
	SeriesFutureOpen   Series = "future_open"
	SeriesRiskFree     Series = "risk_free"
	SeriesCirculating  Series = "circulating_value"
)

// Oracle provides point lookups against the historical input tables.
// Implementations must return a MissingDataError for absent values, never a
// zero substitute.
type Oracle interface {
	AdjustedOpen(date Date, code string) (float64, error)
	RawOpen(date Date, code string) (float64, error)
	FutureOpen(date Date, symbol string) (float64, error)
	RiskFreeDaily(date Date) (float64, error)
	RiskFreeMonthly(date Date) (float64, error)
	CirculatingValue(date Date, code string) (float64, error)
}

// MissingDataError reports an absent (date, instrument) value in one of the
// input tables. It is fatal for a run: the simulation halts with the failing
// date and instrument identified.
type MissingDataError struct {
	Series Series
	Date   Date
	Code   string
}

func (e *MissingDataError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("missing %s value on %s", e.Series, e.Date)
	}
	return fmt.Sprintf("missing %s value for %s on %s", e.Series, e.Code, e.Date)
}
