package date

import "fmt"

// Range is an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the whole period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// ToDate returns the range from the start of the period containing d up to d,
// like "month to date".
func ToDate(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d}
}

// Contains reports whether date is in the range, boundaries included.
// A zero From is unbounded.
func (r Range) Contains(date Date) bool {
	return (r.From.IsZero() || !date.Before(r.From)) && !date.After(r.To)
}

func (r Range) String() string {
	if r.From.IsZero() {
		return fmt.Sprintf("until %s", r.To)
	}
	return fmt.Sprintf("%s to %s", r.From, r.To)
}
