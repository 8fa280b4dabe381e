package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimePeriod is the window a statistics or analytics query looks at
type TimePeriod int

const (
	PeriodThreeMonths TimePeriod = iota
	PeriodSixMonths
	PeriodOneYear
	PeriodAllTime
)

func (p TimePeriod) String() string {
	switch p {
	case PeriodThreeMonths:
		return "3m"
	case PeriodSixMonths:
		return "6m"
	case PeriodOneYear:
		return "1y"
	case PeriodAllTime:
		return "all"
	default:
		return fmt.Sprintf("TimePeriod(%d)", int(p))
	}
}

// ParseTimePeriod accepts the short form ("3m", "6m", "1y", "all") and a few long aliases.
// An empty string resolves to all-time.
func ParseTimePeriod(s string) (TimePeriod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "3m", "three_months", "last_3_months":
		return PeriodThreeMonths, nil
	case "6m", "six_months", "last_6_months":
		return PeriodSixMonths, nil
	case "1y", "one_year", "last_year", "last_1_year":
		return PeriodOneYear, nil
	case "", "all", "all_time":
		return PeriodAllTime, nil
	default:
		return PeriodAllTime, fmt.Errorf("invalid time period %q", s)
	}
}

// Range resolves the period to an inclusive [start, end] pair of epoch millis.
// End is always now; all-time starts at 0.
func (p TimePeriod) Range(now time.Time) (start, end int64) {
	end = now.UnixMilli()
	switch p {
	case PeriodThreeMonths:
		start = now.AddDate(0, -3, 0).UnixMilli()
	case PeriodSixMonths:
		start = now.AddDate(0, -6, 0).UnixMilli()
	case PeriodOneYear:
		start = now.AddDate(-1, 0, 0).UnixMilli()
	default:
		start = 0
	}
	return start, end
}
