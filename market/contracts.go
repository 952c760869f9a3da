package market

import (
	"errors"
	"fmt"
)

// ErrScheduleExhausted reports a contract lookup outside the schedule's
// covered range.
var ErrScheduleExhausted = errors.New("contract schedule exhausted")

// ContractSpec describes the index-futures contract that is active from
// Effective until the next entry's effective date. Effective dates double as
// the rollover schedule: on each one the hedge is closed and reopened.
type ContractSpec struct {
	Effective  Date
	Symbol     string
	Multiplier float64
	MarginRate float64
	FeeRate    float64
}

// ContractSchedule is the rollover/contract-info schedule in ascending
// effective-date order. Read-only for the duration of a run.
type ContractSchedule []ContractSpec

// ActiveAt returns the most recent entry with Effective <= date.
func (s ContractSchedule) ActiveAt(date Date) (ContractSpec, error) {
	idx := -1
	for i := range s {
		if s[i].Effective > date {
			break
		}
		idx = i
	}
	if idx < 0 {
		return ContractSpec{}, fmt.Errorf("no futures contract effective on or before %s: %w", date, ErrScheduleExhausted)
	}
	return s[idx], nil
}

// NextAfter returns the index of the first entry strictly after date, or -1
// when the schedule is exhausted. The simulator uses this as its rollover
// cursor sentinel.
func (s ContractSchedule) NextAfter(date Date) int {
	for i := range s {
		if s[i].Effective > date {
			return i
		}
	}
	return -1
}
