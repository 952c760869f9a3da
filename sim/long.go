package sim

import (
	"math"
	"sort"

	"github.com/MHMJerry/BackTest-ZZ800/market"
)

const (
	// boardLot is the minimum tradable share increment for A-share equities.
	boardLot = 100

	// minOpenFee is the per-instrument floor on the buy fee when opening.
	minOpenFee = 5
)

// Lot is one long-book entry: a single instrument's position on a single
// date. Price is the forward-adjusted board-lot price, Units the (fractional)
// board-lot count in adjusted terms, Real the raw-price market value.
//
// Invariant: Real = rawOpen * boardLot * trunc(notional / (rawOpen*boardLot)),
// i.e. shares round down to a whole board lot before conversion to adjusted
// units via Units = Real / Price.
type Lot struct {
	Code  string
	Price float64
	Units float64
	Real  float64
	Date  market.Date
}

// LongBook owns the long-equity lot book. The current slice holds today's
// open lots in code order; the ledger accumulates one row per (code, date)
// the book held a position, and is what ends up in the lot record output.
type LongBook struct {
	oracle  market.Oracle
	buyFee  float64
	sellFee float64

	current []Lot
	ledger  []Lot
	todayAt int // ledger offset where today's rows begin
}

func NewLongBook(o market.Oracle, buyFee, sellFee float64) *LongBook {
	return &LongBook{oracle: o, buyFee: buyFee, sellFee: sellFee}
}

// Ledger returns every (code, date) row the book has held, in day order.
func (b *LongBook) Ledger() []Lot { return b.ledger }

// Holdings returns a copy of today's open lots.
func (b *LongBook) Holdings() []Lot {
	out := make([]Lot, len(b.current))
	copy(out, b.current)
	return out
}

// targetLots sizes a fresh lot set for the weights against the notional
// basis. Instruments whose board-lot count truncates to zero are dropped.
func (b *LongBook) targetLots(date market.Date, w market.Weights, basis float64) ([]Lot, float64, error) {
	codes := w.Codes()
	lots := make([]Lot, 0, len(codes))
	var total float64

	for _, code := range codes {
		raw, err := b.oracle.RawOpen(date, code)
		if err != nil {
			return nil, 0, err
		}
		adj, err := b.oracle.AdjustedOpen(date, code)
		if err != nil {
			return nil, 0, err
		}

		lotPrice := raw * boardLot
		n := math.Trunc(w[code] * basis / lotPrice)
		if n == 0 {
			continue
		}

		real := lotPrice * n
		adjPrice := adj * boardLot
		lots = append(lots, Lot{
			Code:  code,
			Price: adjPrice,
			Units: real / adjPrice,
			Real:  real,
			Date:  date,
		})
		total += real
	}

	return lots, total, nil
}

// Open builds the initial lot set from the target weights, sized against the
// current asset value. Requires a flat book. Cash drops by the full open
// value; the buy fee (floored at minOpenFee per instrument) accrues on the
// state, not on cash directly.
func (b *LongBook) Open(date market.Date, w market.Weights, st *State) error {
	lots, total, err := b.targetLots(date, w, st.Asset)
	if err != nil {
		return err
	}

	var fee float64
	for i := range lots {
		f := lots[i].Real * b.buyFee
		if f < minOpenFee {
			f = minOpenFee
		}
		fee += f
	}

	b.todayAt = len(b.ledger)
	b.ledger = append(b.ledger, lots...)
	b.current = lots

	st.LongFee += fee
	st.LongHolding = total
	st.Cash -= total
	st.Active = true
	return nil
}

// Revalue reprices today's lots from the adjusted open and appends the
// revalued rows to the ledger. Returns the day's long P&L and the new
// holding value; the engine applies both to the state.
func (b *LongBook) Revalue(date market.Date) (pnl, holding float64, err error) {
	next := make([]Lot, len(b.current))
	var oldSum, newSum float64

	for i, lot := range b.current {
		adj, err := b.oracle.AdjustedOpen(date, lot.Code)
		if err != nil {
			return 0, 0, err
		}
		price := adj * boardLot

		nl := lot
		nl.Date = date
		nl.Price = price
		nl.Real = price * lot.Units
		next[i] = nl

		oldSum += lot.Real
		newSum += nl.Real
	}

	b.todayAt = len(b.ledger)
	b.ledger = append(b.ledger, next...)
	b.current = next
	return newSum - oldSum, newSum, nil
}

// Adjust rebuilds the lot set against today's asset value, replacing today's
// revalued rows. Cash is credited with the prior holding's value and debited
// with the new one; the fee is charged on the per-instrument change in
// adjusted units via diffFee. Requires an active book that has already been
// revalued to date.
func (b *LongBook) Adjust(date market.Date, w market.Weights, st *State) error {
	old := b.current

	var proceeds float64
	for _, lot := range old {
		proceeds += lot.Real
	}
	st.Cash += proceeds

	lots, total, err := b.targetLots(date, w, st.Asset)
	if err != nil {
		return err
	}

	st.LongFee += diffFee(old, lots, b.buyFee, b.sellFee)

	b.ledger = b.ledger[:b.todayAt]
	b.ledger = append(b.ledger, lots...)
	b.current = lots

	st.LongHolding = total
	st.Cash -= total
	return nil
}

// Close liquidates today's lots at their revalued prices. The close-day rows
// come back out of the ledger: the lot record output only covers dates the
// position was still open at day end.
func (b *LongBook) Close(st *State) {
	var proceeds float64
	for _, lot := range b.current {
		proceeds += lot.Real
	}

	st.Cash += proceeds
	st.LongFee += proceeds * b.sellFee
	st.LongHolding = 0
	st.Active = false

	b.ledger = b.ledger[:b.todayAt]
	b.current = nil
}

// diffFee charges the sell fee on per-instrument unit decreases at the old
// adjusted price and the buy fee on increases at the new adjusted price.
// The diff is an explicit outer join on instrument code, walked in code
// order, with each instrument counted exactly once.
func diffFee(old, new []Lot, buyFee, sellFee float64) float64 {
	type delta struct {
		oldLot *Lot
		newLot *Lot
	}

	m := make(map[string]*delta, len(old)+len(new))
	for i := range old {
		m[old[i].Code] = &delta{oldLot: &old[i]}
	}
	for i := range new {
		d, ok := m[new[i].Code]
		if !ok {
			d = &delta{}
			m[new[i].Code] = d
		}
		d.newLot = &new[i]
	}

	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var fee float64
	for _, code := range codes {
		d := m[code]
		var oldUnits, newUnits float64
		if d.oldLot != nil {
			oldUnits = d.oldLot.Units
		}
		if d.newLot != nil {
			newUnits = d.newLot.Units
		}

		switch diff := newUnits - oldUnits; {
		case diff < 0:
			fee += -diff * d.oldLot.Price * sellFee
		case diff > 0:
			fee += diff * d.newLot.Price * buyFee
		}
	}
	return fee
}
