package domain

import "time"

type Event struct {
	Timestamp time.Time
	Value     int64
}

type TimeRange struct {
	From time.Time
	To   time.Time
}

// Series is the result of one aggregation: Dataset[i] is the sum of the
// events in the bucket that starts at Labels[i].
type Series struct {
	Labels  []time.Time `json:"labels"`
	Dataset []int64     `json:"dataset"`
}
