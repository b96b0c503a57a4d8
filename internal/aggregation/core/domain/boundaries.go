package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange   = errors.New("invalid time range")
	ErrTooManyBuckets = errors.New("too many buckets requested")
)

// Sentinel returns the exclusive upper bound appended after the last real
// boundary. No stored event is expected at or after it.
func Sentinel(loc *time.Location) time.Time {
	return time.Date(9999, time.September, 1, 0, 0, 0, 0, loc)
}

// Boundaries holds the bucket starts of a range followed by the sentinel.
type Boundaries struct {
	Range  TimeRange
	Points []time.Time
}

// Buckets is the number of real buckets (the sentinel is not one).
func (b Boundaries) Buckets() int {
	if len(b.Points) == 0 {
		return 0
	}
	return len(b.Points) - 1
}

// Bucketizer splits a range into calendar-aware buckets.
// MaxBuckets <= 0 means no limit.
type Bucketizer struct {
	MaxBuckets int
}

func GenerateBoundaries(r TimeRange, g Granularity) (Boundaries, error) {
	return Bucketizer{}.Boundaries(r, g)
}

func (bz Bucketizer) Boundaries(r TimeRange, g Granularity) (Boundaries, error) {
	if g < Hour || g > Month {
		return Boundaries{}, ErrInvalidGranularity
	}

	sentinel := Sentinel(r.From.Location())
	if r.From.After(r.To) {
		return Boundaries{}, fmt.Errorf("%w: start is after end", ErrInvalidRange)
	}
	if !r.To.Before(sentinel) {
		return Boundaries{}, fmt.Errorf("%w: end must be before %s", ErrInvalidRange, sentinel.Format("2006-01-02T15:04:05"))
	}

	var points []time.Time
	for cursor := r.From; !cursor.After(r.To); cursor = g.Next(cursor) {
		if bz.MaxBuckets > 0 && len(points) >= bz.MaxBuckets {
			return Boundaries{}, ErrTooManyBuckets
		}
		points = append(points, cursor)
	}
	points = append(points, sentinel)

	return Boundaries{Range: r, Points: points}, nil
}
