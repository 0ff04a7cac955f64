package date

import (
	"fmt"
	"strings"
)

// Period is a calendar period: day, week, month, quarter or year.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periodNames are the short names of the periods, in Period order.
var periodNames = []string{"day", "week", "month", "quarter", "year"}

// PeriodNames returns the names accepted by ParsePeriod, shortest form.
func PeriodNames() []string { return append([]string(nil), periodNames...) }

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// ParsePeriod parses a period by name, "month" and "monthly" are both accepted.
func ParsePeriod(p string) (Period, error) {
	s := strings.ToLower(strings.TrimSpace(p))
	switch s {
	case "daily":
		s = "day"
	default:
		s = strings.TrimSuffix(s, "ly")
	}
	for i, name := range periodNames {
		if s == name {
			return Period(i), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q, want one of %s", p, strings.Join(periodNames, ", "))
}
