package sim

// State is the single mutable portfolio snapshot. It is owned exclusively by
// the Engine and handed to the position managers by pointer; nothing outside
// the day loop observes it mid-day.
//
// Pre-fee invariant: Asset ≈ Cash + LongHolding − short mark-to-market loss
// since inception. LongFee and ShortFee are the current day's accruals; the
// engine resets them each morning and deducts their sum from both Asset and
// Cash each evening.
type State struct {
	Asset        float64
	Cash         float64
	LongHolding  float64
	ShortHolding float64
	ShortMargin  float64
	LongFee      float64
	ShortFee     float64

	// Active is true while both legs are open. The legs open and close as a
	// pair, so a single flag covers the FLAT/ACTIVE machine.
	Active bool
}
