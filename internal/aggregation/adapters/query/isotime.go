package query

import (
	"fmt"
	"time"
)

const labelLayout = "2006-01-02T15:04:05"

var (
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02T15",
		"2006-01-02 15",
		"2006-01-02",
	}
	awareLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02T15:04:05Z0700",
		"2006-01-02 15:04:05Z0700",
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04Z07:00",
	}
)

// parseISO parses an ISO-8601 timestamp. Timestamps without an offset are
// read as UTC and reported as naive.
func parseISO(s string) (t time.Time, aware bool, err error) {
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	for _, layout := range awareLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			_, offset := t.Zone()
			return t.In(time.FixedZone("", offset)), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: invalid isoformat string %q", ErrMalformedInput, s)
}

// formatLabel renders t the way the query was written: microseconds only when
// present, the offset only for offset-aware queries.
func formatLabel(t time.Time, aware bool) string {
	out := t.Format(labelLayout)
	if us := t.Nanosecond() / int(time.Microsecond); us != 0 {
		out += fmt.Sprintf(".%06d", us)
	}
	if aware {
		out += t.Format("-07:00")
	}
	return out
}
