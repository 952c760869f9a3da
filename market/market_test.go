package market

import (
	"errors"
	"testing"
)

func TestDateMonth(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{"2011-01-04", "2011-01"},
		{"2022-12-30", "2022-12"},
		{"2011-1", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := tc.date.Month(); got != tc.want {
			t.Errorf("Month(%q): got %q want %q", tc.date, got, tc.want)
		}
	}
}

func TestDateSameMonth(t *testing.T) {
	if !Date("2011-01-04").SameMonth("2011-01-31") {
		t.Error("same January dates reported as different months")
	}
	if Date("2011-01-31").SameMonth("2011-02-01") {
		t.Error("month boundary not detected")
	}
	if Date("").SameMonth("") {
		t.Error("malformed dates must never compare equal")
	}
}

func TestDateOrdering(t *testing.T) {
	// The whole simulator leans on string order being date order.
	if !(Date("2011-01-04") < Date("2011-01-05")) || !(Date("2011-12-30") < Date("2012-01-04")) {
		t.Error("lexicographic order is not chronological")
	}
}

func TestWeightsCodesSorted(t *testing.T) {
	w := Weights{"600519": 0.2, "000001": 0.3, "300750": 0.5}
	got := w.Codes()
	want := []string{"000001", "300750", "600519"}
	if len(got) != len(want) {
		t.Fatalf("codes: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codes: got %v want %v", got, want)
		}
	}
}

func TestWeightScheduleFor(t *testing.T) {
	s := WeightSchedule{"2010-12-31": {"600000": 1.0}}
	if w := s.For("2010-12-31"); len(w) != 1 {
		t.Fatalf("For: got %v", w)
	}
	if w := s.For("2011-01-31"); w != nil {
		t.Fatalf("missing entry should be nil, got %v", w)
	}
}

func TestContractScheduleActiveAt(t *testing.T) {
	s := ContractSchedule{
		{Effective: "2010-12-20", Symbol: "IC1101"},
		{Effective: "2011-01-18", Symbol: "IC1102"},
		{Effective: "2011-02-15", Symbol: "IC1103"},
	}

	tests := []struct {
		date Date
		want string
	}{
		{"2010-12-20", "IC1101"},
		{"2011-01-17", "IC1101"},
		{"2011-01-18", "IC1102"},
		{"2011-03-01", "IC1103"},
	}
	for _, tc := range tests {
		spec, err := s.ActiveAt(tc.date)
		if err != nil {
			t.Fatalf("ActiveAt(%s): %v", tc.date, err)
		}
		if spec.Symbol != tc.want {
			t.Errorf("ActiveAt(%s): got %s want %s", tc.date, spec.Symbol, tc.want)
		}
	}

	if _, err := s.ActiveAt("2010-12-19"); !errors.Is(err, ErrScheduleExhausted) {
		t.Errorf("date before the first entry: got %v", err)
	}
}

func TestContractScheduleNextAfter(t *testing.T) {
	s := ContractSchedule{
		{Effective: "2010-12-20", Symbol: "IC1101"},
		{Effective: "2011-01-18", Symbol: "IC1102"},
	}

	if got := s.NextAfter("2011-01-04"); got != 1 {
		t.Errorf("NextAfter mid-schedule: got %d want 1", got)
	}
	if got := s.NextAfter("2010-12-19"); got != 0 {
		t.Errorf("NextAfter before schedule: got %d want 0", got)
	}
	if got := s.NextAfter("2011-01-18"); got != -1 {
		t.Errorf("NextAfter exhausted: got %d want -1", got)
	}
}

func TestMissingDataError(t *testing.T) {
	err := error(&MissingDataError{Series: SeriesRawOpen, Date: "2011-01-04", Code: "600000"})
	if err.Error() != "missing raw_open value for 600000 on 2011-01-04" {
		t.Errorf("message: %q", err.Error())
	}

	var miss *MissingDataError
	if !errors.As(err, &miss) || miss.Code != "600000" {
		t.Error("errors.As failed to recover the failure site")
	}

	rate := error(&MissingDataError{Series: SeriesRiskFree, Date: "2011-01-04"})
	if rate.Error() != "missing risk_free value on 2011-01-04" {
		t.Errorf("rate message: %q", rate.Error())
	}
}
