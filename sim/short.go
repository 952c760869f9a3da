package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// ShortPosition is the single active futures hedge. Contracts is a whole
// count truncated toward zero and may be 0. EntryPrice is the raw futures
// price at open; the contract value is EntryPrice * Multiplier.
type ShortPosition struct {
	Symbol     string
	Multiplier float64
	Contracts  float64
	MarginRate float64
	FeeRate    float64
	EntryPrice float64
}

// ShortHedge manages the futures hedge against the long book. At most one
// position is active at a time; pos is nil while flat.
type ShortHedge struct {
	oracle   market.Oracle
	schedule market.ContractSchedule
	ratio    float64
	log      *logrus.Logger

	pos *ShortPosition
}

func NewShortHedge(o market.Oracle, sched market.ContractSchedule, ratio float64, log *logrus.Logger) *ShortHedge {
	return &ShortHedge{oracle: o, schedule: sched, ratio: ratio, log: log}
}

// Position returns the active position, or nil while flat.
func (h *ShortHedge) Position() *ShortPosition { return h.pos }

// futurePrice looks up the futures open. A non-positive price is logged and
// used as-is; the run keeps going in that degraded mode.
func (h *ShortHedge) futurePrice(date market.Date, symbol string) (float64, error) {
	p, err := h.oracle.FutureOpen(date, symbol)
	if err != nil {
		return 0, err
	}
	if p <= 0 {
		h.log.WithFields(logrus.Fields{
			"date":   date.String(),
			"symbol": symbol,
		}).Warnf("non-positive futures price %.4f", p)
	}
	return p, nil
}

// Open shorts the contract active at date, sized at hedgeRatio times the
// current long holding. The contract count truncates toward zero.
func (h *ShortHedge) Open(date market.Date, st *State) error {
	spec, err := h.schedule.ActiveAt(date)
	if err != nil {
		return err
	}
	price, err := h.futurePrice(date, spec.Symbol)
	if err != nil {
		return err
	}

	contract := price * spec.Multiplier
	n := math.Trunc(st.LongHolding * h.ratio / contract)

	h.pos = &ShortPosition{
		Symbol:     spec.Symbol,
		Multiplier: spec.Multiplier,
		Contracts:  n,
		MarginRate: spec.MarginRate,
		FeeRate:    spec.FeeRate,
		EntryPrice: price,
	}

	st.ShortHolding = n * contract
	st.ShortMargin = st.ShortHolding * spec.MarginRate
	st.ShortFee += st.ShortHolding * spec.FeeRate
	return nil
}

// Close settles the hedge at today's price: a fall since entry is a gain.
// The close fee is charged on the full closing notional.
func (h *ShortHedge) Close(date market.Date, st *State) error {
	pos := h.pos
	if pos == nil {
		return fmt.Errorf("short hedge: close with no open position on %s", date)
	}

	price, err := h.futurePrice(date, pos.Symbol)
	if err != nil {
		return err
	}

	settle := (pos.EntryPrice - price) * pos.Multiplier * pos.Contracts
	st.Cash += settle
	st.ShortHolding = 0
	st.ShortMargin = 0
	st.ShortFee += pos.Contracts * price * pos.Multiplier * pos.FeeRate

	h.pos = nil
	return nil
}

// Rollover closes the expiring contract and reopens on the one active at
// date. Both legs of the roll pay their fee; neither is double-booked.
func (h *ShortHedge) Rollover(date market.Date, st *State) error {
	if err := h.Close(date, st); err != nil {
		return err
	}
	return h.Open(date, st)
}

// AdjustRatio re-sizes the contract count to the current long holding at
// today's price. An unchanged count is a no-op. Only the changed contracts
// are fee-charged, and no settlement is booked: the position size changes,
// not the realization, so EntryPrice stays anchored at the original open.
func (h *ShortHedge) AdjustRatio(date market.Date, st *State) error {
	pos := h.pos
	if pos == nil {
		return fmt.Errorf("short hedge: adjust with no open position on %s", date)
	}

	price, err := h.futurePrice(date, pos.Symbol)
	if err != nil {
		return err
	}

	contract := price * pos.Multiplier
	n := math.Trunc(st.LongHolding * h.ratio / contract)
	if n == pos.Contracts {
		return nil
	}

	change := math.Abs(n - pos.Contracts)
	pos.Contracts = n

	st.ShortHolding = n * contract
	st.ShortMargin = st.ShortHolding * pos.MarginRate
	st.ShortFee += change * contract * pos.FeeRate
	return nil
}

// Revalue marks the hedge to today's price. A rising future under a short is
// a loss, so the holding delta comes straight off Asset.
func (h *ShortHedge) Revalue(date market.Date, st *State) error {
	pos := h.pos
	if pos == nil {
		return nil
	}

	price, err := h.futurePrice(date, pos.Symbol)
	if err != nil {
		return err
	}

	holding := price * pos.Multiplier * pos.Contracts
	st.Asset -= holding - st.ShortHolding
	st.ShortHolding = holding
	st.ShortMargin = holding * pos.MarginRate
	return nil
}
