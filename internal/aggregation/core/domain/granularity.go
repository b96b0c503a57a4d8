package domain

import (
	"errors"
	"time"
)

var ErrInvalidGranularity = errors.New("invalid granularity")

// Granularity is the bucket-sizing policy of a query.
type Granularity int

const (
	Hour Granularity = iota + 1
	Day
	Month
)

func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "hour":
		return Hour, nil
	case "day":
		return Day, nil
	case "month":
		return Month, nil
	default:
		return 0, ErrInvalidGranularity
	}
}

func (g Granularity) String() string {
	switch g {
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Month:
		return "month"
	default:
		return "unknown"
	}
}

// Next returns t moved forward by one bucket. Month steps keep the
// day-of-month when the target month has it and clamp to its last day
// otherwise, so 2024-01-31 steps to 2024-02-29.
func (g Granularity) Next(t time.Time) time.Time {
	switch g {
	case Hour:
		return t.Add(time.Hour)
	case Day:
		return t.AddDate(0, 0, 1)
	case Month:
		return addMonth(t)
	default:
		return t
	}
}

func addMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	if last := daysIn(year, month, t.Location()); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
