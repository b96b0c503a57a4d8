package query

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK          = "ok"
	outcomeBadRequest  = "bad_request"
	outcomeSourceError = "source_error"
)

var (
	queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregation_queries_total",
		Help: "Number of aggregation queries answered, by outcome.",
	}, []string{"outcome"})

	queryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aggregation_query_duration_seconds",
		Help:    "Time taken to answer an aggregation query.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(queriesTotal)
	prometheus.MustRegister(queryDuration)
}
