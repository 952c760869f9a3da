package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/MHMJerry/BackTest-ZZ800/market"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func newTestBook(t *testing.T, o market.Oracle) (*LongBook, *State) {
	t.Helper()
	st := &State{Asset: 1e7, Cash: 1e7}
	return NewLongBook(o, 0.001, 0.001), st
}

func TestLongBookOpenFullWeight(t *testing.T) {
	o := newFakeOracle()
	o.setEquity("2011-01-04", "600000", 100, 200)

	b, st := newTestBook(t, o)
	if err := b.Open("2011-01-04", market.Weights{"600000": 1.0}, st); err != nil {
		t.Fatalf("open: %v", err)
	}

	// 10,000,000 / (100 * 100 shares) = 1000 whole board lots, no remainder.
	if !approxEqual(st.LongHolding, 1e7, 1e-6) {
		t.Fatalf("long holding: got %.2f want 10000000", st.LongHolding)
	}
	if !approxEqual(st.Cash, 0, 1e-6) {
		t.Fatalf("cash: got %.2f want 0", st.Cash)
	}
	if !approxEqual(st.LongFee, 1e4, 1e-6) {
		t.Fatalf("buy fee: got %.2f want 10000", st.LongFee)
	}
	if !st.Active {
		t.Fatal("book should be active after open")
	}

	lots := b.Holdings()
	if len(lots) != 1 {
		t.Fatalf("lots: got %d want 1", len(lots))
	}
	lot := lots[0]
	if !approxEqual(lot.Real, 1e7, 1e-6) {
		t.Fatalf("lot real: got %.2f", lot.Real)
	}
	if !approxEqual(lot.Price, 200*boardLot, 1e-9) {
		t.Fatalf("lot adjusted price: got %.2f", lot.Price)
	}
	if !approxEqual(lot.Units, 1e7/(200*boardLot), 1e-9) {
		t.Fatalf("lot units: got %.6f", lot.Units)
	}
}

func TestLongBookOpenBoardLotRounding(t *testing.T) {
	o := newFakeOracle()
	o.setEquity("2011-01-04", "600000", 123, 123)

	b, st := newTestBook(t, o)
	if err := b.Open("2011-01-04", market.Weights{"600000": 0.5}, st); err != nil {
		t.Fatalf("open: %v", err)
	}

	lot := b.Holdings()[0]
	shares := lot.Real / 123
	if math.Mod(shares, 100) != 0 {
		t.Fatalf("share count %.0f is not a multiple of 100", shares)
	}
	// 5,000,000 / 12,300 truncates to 406 lots = 40,600 shares.
	if !approxEqual(lot.Real, 123*40600, 1e-6) {
		t.Fatalf("lot real: got %.2f want %.2f", lot.Real, 123.0*40600)
	}
	if !approxEqual(st.Cash, 1e7-lot.Real, 1e-6) {
		t.Fatalf("cash conservation: got %.2f want %.2f", st.Cash, 1e7-lot.Real)
	}
}

func TestLongBookOpenMinimumFee(t *testing.T) {
	o := newFakeOracle()
	o.setEquity("2011-01-04", "600000", 10, 10)

	b, st := newTestBook(t, o)
	st.Asset = 4000
	st.Cash = 4000

	// Four board lots at 1000 give a 4.00 fee before the floor.
	if err := b.Open("2011-01-04", market.Weights{"600000": 1.0}, st); err != nil {
		t.Fatalf("open: %v", err)
	}
	if !approxEqual(st.LongFee, minOpenFee, 1e-9) {
		t.Fatalf("fee: got %.4f want %.4f", st.LongFee, float64(minOpenFee))
	}
}

func TestLongBookOpenDropsZeroLots(t *testing.T) {
	o := newFakeOracle()
	o.setEquity("2011-01-04", "600000", 100, 100)
	o.setEquity("2011-01-04", "600001", 100000, 100000)

	b, st := newTestBook(t, o)
	err := b.Open("2011-01-04", market.Weights{"600000": 0.5, "600001": 0.0001}, st)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	lots := b.Holdings()
	if len(lots) != 1 || lots[0].Code != "600000" {
		t.Fatalf("expected only 600000 held, got %+v", lots)
	}
}

func TestLongBookRevalue(t *testing.T) {
	o := newFakeOracle()
	o.setEquity("2011-01-04", "600000", 100, 200)
	o.setEquity("2011-01-05", "600000", 101, 202)

	b, st := newTestBook(t, o)
	if err := b.Open("2011-01-04", market.Weights{"600000": 1.0}, st); err != nil {
		t.Fatalf("open: %v", err)
	}

	pnl, holding, err := b.Revalue("2011-01-05")
	if err != nil {
		t.Fatalf("revalue: %v", err)
	}

	// Adjusted price moved 200 -> 202, a 1% gain on the 1e7 position.
	if !approxEqual(pnl, 1e5, 1e-6) {
		t.Fatalf("pnl: got %.2f want 100000", pnl)
	}
	if !approxEqual(holding, 1.01e7, 1e-6) {
		t.Fatalf("holding: got %.2f want 10100000", holding)
	}

	ledger := b.Ledger()
	if len(ledger) != 2 {
		t.Fatalf("ledger rows: got %d want 2", len(ledger))
	}
	if ledger[1].Date != "2011-01-05" {
		t.Fatalf("ledger row date: got %s", ledger[1].Date)
	}
	if !approxEqual(ledger[1].Units, ledger[0].Units, 1e-12) {
		t.Fatal("revaluation must not change adjusted units")
	}
}

func TestLongBookAdjustFees(t *testing.T) {
	o := newFakeOracle()
	o.setEquity("2011-01-04", "600000", 100, 100)
	o.setEquity("2011-01-04", "600001", 50, 50)
	o.setEquity("2011-01-05", "600000", 100, 100)
	o.setEquity("2011-01-05", "600001", 50, 50)
	o.setEquity("2011-01-05", "600002", 20, 20)

	b, st := newTestBook(t, o)
	err := b.Open("2011-01-04", market.Weights{"600000": 0.5, "600001": 0.5}, st)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, _, err := b.Revalue("2011-01-05"); err != nil {
		t.Fatalf("revalue: %v", err)
	}

	st.LongFee = 0
	cashBefore := st.Cash

	// 600000 shrinks, 600001 leaves, 600002 enters.
	err = b.Adjust("2011-01-05", market.Weights{"600000": 0.3, "600002": 0.4}, st)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}

	lots := b.Holdings()
	if len(lots) != 2 {
		t.Fatalf("lots after adjust: got %d want 2", len(lots))
	}

	// Prices are flat day-over-day, so each unit diff times its adjusted
	// price is exactly the notional change.
	oldA := 5e6 // 600000 at weight 0.5
	newA := lots[0].Real
	newC := lots[1].Real
	wantFee := (oldA-newA)*0.001 + // sell the 600000 shrink at the old price
		5e6*0.001 + // sell the full 600001 exit
		newC*0.001 // buy the 600002 entry
	if !approxEqual(st.LongFee, wantFee, 1e-6) {
		t.Fatalf("adjust fee: got %.4f want %.4f", st.LongFee, wantFee)
	}

	// Cash: credited with the old holding, debited with the new.
	wantCash := cashBefore + 1e7 - (newA + newC)
	if !approxEqual(st.Cash, wantCash, 1e-6) {
		t.Fatalf("cash: got %.2f want %.2f", st.Cash, wantCash)
	}

	// Today's ledger rows are replaced, not duplicated.
	var todayRows int
	for _, lot := range b.Ledger() {
		if lot.Date == "2011-01-05" {
			todayRows++
		}
	}
	if todayRows != 2 {
		t.Fatalf("today's ledger rows: got %d want 2", todayRows)
	}
}

func TestLongBookClose(t *testing.T) {
	o := newFakeOracle()
	o.setEquity("2011-01-04", "600000", 100, 200)
	o.setEquity("2011-01-05", "600000", 100, 202)

	b, st := newTestBook(t, o)
	if err := b.Open("2011-01-04", market.Weights{"600000": 1.0}, st); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, _, err := b.Revalue("2011-01-05"); err != nil {
		t.Fatalf("revalue: %v", err)
	}

	st.LongFee = 0
	cashBefore := st.Cash

	b.Close(st)

	if st.Active {
		t.Fatal("book should be flat after close")
	}
	if st.LongHolding != 0 {
		t.Fatalf("long holding: got %.2f want 0", st.LongHolding)
	}
	if !approxEqual(st.Cash, cashBefore+1.01e7, 1e-6) {
		t.Fatalf("cash: got %.2f want %.2f", st.Cash, cashBefore+1.01e7)
	}
	if !approxEqual(st.LongFee, 1.01e7*0.001, 1e-6) {
		t.Fatalf("sell fee: got %.2f", st.LongFee)
	}

	// The close-day rows leave the ledger; only the open-day row remains.
	ledger := b.Ledger()
	if len(ledger) != 1 || ledger[0].Date != "2011-01-04" {
		t.Fatalf("ledger after close: %+v", ledger)
	}
}

func TestLongBookMissingPrice(t *testing.T) {
	o := newFakeOracle()

	b, st := newTestBook(t, o)
	err := b.Open("2011-01-04", market.Weights{"600000": 1.0}, st)
	if err == nil {
		t.Fatal("expected error for missing price")
	}

	var missing *market.MissingDataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDataError, got %v", err)
	}
	if missing.Code != "600000" || missing.Date != "2011-01-04" {
		t.Fatalf("error should identify date and instrument: %v", missing)
	}
}
