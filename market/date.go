package market

// Date is a trading date in ISO form, "2011-01-04". The input tables are
// keyed by these strings, and for ISO dates lexicographic order is
// chronological, so plain string comparison works for ordering.
type Date string

// Month returns the "2011-01" prefix, or "" if the date is malformed.
func (d Date) Month() string {
	if len(d) < 7 {
		return ""
	}
	return string(d[:7])
}

// SameMonth reports whether two dates fall in the same calendar month.
func (d Date) SameMonth(o Date) bool {
	return d.Month() != "" && d.Month() == o.Month()
}

func (d Date) IsZero() bool { return d == "" }

func (d Date) String() string { return string(d) }
