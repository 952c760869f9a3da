package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/MHMJerry/BackTest-ZZ800/journal"
	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// Params are the fixed knobs of a run.
type Params struct {
	Capital        float64
	HedgeRatio     float64
	BuyFee         float64
	SellFee        float64
	DailyManageFee float64

	// PriorDate keys the weight schedule entry used for the opening day.
	// Every later rebalance is keyed to the day before execution, so no
	// weight lookup ever sees its own execution date.
	PriorDate market.Date
}

// Engine drives the trading-day state machine over the timeline. All mutable
// state (State, lot book, short position, rollover cursor, rebalance flag)
// is owned here and mutated strictly in day order.
type Engine struct {
	params  Params
	oracle  market.Oracle
	weights market.WeightSchedule
	sched   market.ContractSchedule
	long    *LongBook
	hedge   *ShortHedge
	jrnl    journal.Journal
	log     *logrus.Logger

	st        State
	timeline  []market.Date
	nextRoll  int // index into sched; -1 when the schedule is exhausted
	rebalance bool
}

func NewEngine(
	p Params,
	o market.Oracle,
	w market.WeightSchedule,
	sched market.ContractSchedule,
	timeline []market.Date,
	j journal.Journal,
	log *logrus.Logger,
) *Engine {
	return &Engine{
		params:   p,
		oracle:   o,
		weights:  w,
		sched:    sched,
		long:     NewLongBook(o, p.BuyFee, p.SellFee),
		hedge:    NewShortHedge(o, sched, p.HedgeRatio, log),
		jrnl:     j,
		log:      log,
		st:       State{Asset: p.Capital, Cash: p.Capital},
		timeline: timeline,
		nextRoll: -1,
	}
}

// State returns a copy of the current portfolio state.
func (e *Engine) State() State { return e.st }

// LongBook exposes the lot book for inspection after a run.
func (e *Engine) LongBook() *LongBook { return e.long }

// Hedge exposes the short hedge manager for inspection after a run.
func (e *Engine) Hedge() *ShortHedge { return e.hedge }

// Run walks the timeline once. Each day: reset fee accruals, act (open /
// mark-to-market / rebalance / roll / close), accrue the management fee,
// deduct the day's fees from asset and cash, snapshot. Afterwards the lot
// ledger and run summary are flushed to the journal.
func (e *Engine) Run() error {
	if len(e.timeline) == 0 {
		return fmt.Errorf("sim: empty timeline")
	}

	for i, today := range e.timeline {
		e.st.LongFee = 0
		e.st.ShortFee = 0

		if i == 0 {
			if err := e.startDay(today); err != nil {
				return fmt.Errorf("day %s: %w", today, err)
			}
		} else {
			if err := e.markToMarket(today); err != nil {
				return fmt.Errorf("day %s: %w", today, err)
			}

			if i == len(e.timeline)-1 {
				if err := e.closeAll(today); err != nil {
					return fmt.Errorf("day %s: %w", today, err)
				}
			} else {
				if e.rebalance {
					yesterday := e.timeline[i-1]
					if err := e.changePosition(today, e.weights.For(yesterday)); err != nil {
						return fmt.Errorf("day %s: %w", today, err)
					}
					e.rebalance = false
				}

				if err := e.stepHedge(today); err != nil {
					return fmt.Errorf("day %s: %w", today, err)
				}

				if !e.timeline[i+1].SameMonth(today) {
					e.rebalance = true
				}
			}
		}

		e.st.LongFee += e.st.LongHolding * e.params.DailyManageFee
		fees := e.st.LongFee + e.st.ShortFee
		e.st.Asset -= fees
		e.st.Cash -= fees

		if err := e.jrnl.RecordDay(journal.DailySnapshot{
			Date:         today,
			TotalAsset:   e.st.Asset,
			Cash:         e.st.Cash,
			LongHolding:  e.st.LongHolding,
			ShortHolding: e.st.ShortHolding,
			ShortMargin:  e.st.ShortMargin,
			LongFee:      e.st.LongFee,
			ShortFee:     e.st.ShortFee,
		}); err != nil {
			return fmt.Errorf("record day %s: %w", today, err)
		}
	}

	for _, lot := range e.long.Ledger() {
		if err := e.jrnl.RecordLot(journal.LotRecord{
			Stock: lot.Code,
			Price: lot.Price,
			Units: lot.Units,
			Real:  lot.Real,
			Date:  lot.Date,
		}); err != nil {
			return fmt.Errorf("record lot %s %s: %w", lot.Code, lot.Date, err)
		}
	}

	if err := e.jrnl.RecordRun(journal.RunSummary{
		Start:      e.timeline[0],
		End:        e.timeline[len(e.timeline)-1],
		Days:       len(e.timeline),
		Capital:    e.params.Capital,
		HedgeRatio: e.params.HedgeRatio,
		FinalAsset: e.st.Asset,
		FinalCash:  e.st.Cash,
	}); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	return nil
}

// startDay opens both legs against the prior period's weights and arms the
// rollover cursor at the entry following the currently active contract.
func (e *Engine) startDay(today market.Date) error {
	if err := e.changePosition(today, e.weights.For(e.params.PriorDate)); err != nil {
		return err
	}
	e.nextRoll = e.sched.NextAfter(today)
	return nil
}

// markToMarket revalues both legs at today's prices. While flat, asset and
// cash instead accrue at the daily risk-free rate and nothing else happens.
func (e *Engine) markToMarket(today market.Date) error {
	if !e.st.Active {
		rf, err := e.oracle.RiskFreeDaily(today)
		if err != nil {
			return err
		}
		e.st.Asset *= 1 + rf
		e.st.Cash *= 1 + rf
		return nil
	}

	pnl, holding, err := e.long.Revalue(today)
	if err != nil {
		return err
	}
	e.st.Asset += pnl
	e.st.LongHolding = holding

	return e.hedge.Revalue(today, &e.st)
}

// changePosition applies a target-weight set. Empty weights mean "go flat";
// the legs always open and close as a pair.
func (e *Engine) changePosition(today market.Date, w market.Weights) error {
	if len(w) > 0 {
		if e.st.Active {
			return e.long.Adjust(today, w, &e.st)
		}
		if err := e.long.Open(today, w, &e.st); err != nil {
			return err
		}
		return e.hedge.Open(today, &e.st)
	}

	if e.st.Active {
		e.long.Close(&e.st)
		return e.hedge.Close(today, &e.st)
	}
	return nil
}

// stepHedge rolls the contract on scheduled dates and re-checks the hedge
// ratio the rest of the time. The cursor advances even while flat so a later
// reopen lands on the right contract.
func (e *Engine) stepHedge(today market.Date) error {
	if e.nextRoll >= 0 && today == e.sched[e.nextRoll].Effective {
		if e.st.Active {
			if err := e.hedge.Rollover(today, &e.st); err != nil {
				return err
			}
		}
		e.nextRoll++
		if e.nextRoll >= len(e.sched) {
			e.nextRoll = -1
		}
		return nil
	}

	if e.st.Active {
		return e.hedge.AdjustRatio(today, &e.st)
	}
	return nil
}

// closeAll forces the terminal FLAT state on the run's last day.
func (e *Engine) closeAll(today market.Date) error {
	if !e.st.Active {
		return nil
	}
	if err := e.hedge.Close(today, &e.st); err != nil {
		return err
	}
	e.long.Close(&e.st)
	return nil
}
