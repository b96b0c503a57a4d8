package domain

import "time"

// Merge sums events into the buckets described by b in a single pass.
// Events must be sorted ascending by timestamp. Events outside b.Range, and
// events that arrive out of order, are not counted; the second return value
// reports how many were skipped.
func Merge(b Boundaries, events []Event) (Series, int) {
	n := b.Buckets()
	series := Series{
		Labels:  make([]time.Time, n),
		Dataset: make([]int64, n),
	}
	if n == 0 {
		return series, len(events)
	}
	copy(series.Labels, b.Points[:n])

	skipped := 0
	cursor := 0
	for _, e := range events {
		ts := e.Timestamp
		if ts.Before(b.Range.From) || ts.After(b.Range.To) {
			skipped++
			continue
		}

		for cursor < n-1 && !ts.Before(b.Points[cursor+1]) {
			cursor++
		}
		if ts.Before(b.Points[cursor]) {
			skipped++
			continue
		}

		series.Dataset[cursor] += e.Value
	}

	return series, skipped
}
