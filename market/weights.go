package market

import "sort"

// Weights maps instrument code to target portfolio weight. Weights are
// non-negative and sum to at most 1.
type Weights map[string]float64

// Codes returns the instrument codes in ascending order, for deterministic
// iteration.
func (w Weights) Codes() []string {
	codes := make([]string, 0, len(w))
	for code := range w {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// WeightSchedule maps a rebalance date to the target weights that take
// effect on the next trading day. Immutable once loaded.
type WeightSchedule map[Date]Weights

// For returns the weights keyed to date. A nil result means no schedule
// entry exists, which the simulator treats as "close all positions".
func (s WeightSchedule) For(date Date) Weights {
	return s[date]
}
