// journal/journal.go
package journal

import (
	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// DailySnapshot is one row of the asset ledger: the portfolio state at the
// end of a trading day, after fees.
type DailySnapshot struct {
	Date         market.Date
	TotalAsset   float64
	Cash         float64
	LongHolding  float64
	ShortHolding float64
	ShortMargin  float64
	LongFee      float64
	ShortFee     float64
}

// LotRecord is one row of the long book's lot ledger: a single instrument's
// position on a single date. Price and Units are in forward-adjusted
// board-lot terms; Real is the raw-price market value.
type LotRecord struct {
	Stock string
	Price float64
	Units float64
	Real  float64
	Date  market.Date
}

// RunSummary describes a completed simulation run.
type RunSummary struct {
	Start      market.Date
	End        market.Date
	Days       int
	Capital    float64
	HedgeRatio float64
	FinalAsset float64
	FinalCash  float64
}

// Journal is the recorder sink the simulator writes to. Implementations are
// append-only; a run aborted partway leaves a valid prefix behind.
type Journal interface {
	RecordDay(DailySnapshot) error
	RecordLot(LotRecord) error
	RecordRun(RunSummary) error
	Close() error
}
