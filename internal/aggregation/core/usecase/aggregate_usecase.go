package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"event-aggregation-bot/internal/aggregation/core/domain"
	"event-aggregation-bot/internal/aggregation/core/ports"
)

var (
	ErrInvalidGranularity = domain.ErrInvalidGranularity
	ErrInvalidTimeRange   = domain.ErrInvalidRange
	ErrTooManyBuckets     = domain.ErrTooManyBuckets
	ErrDataSourceFailure  = errors.New("data source failure")
)

type AggregateInput struct {
	From      time.Time
	To        time.Time
	GroupType string // "month" / "day" / "hour"
}

type AggregateUseCase struct {
	reader     ports.EventReaderPort
	cache      ports.SeriesCachePort // optional
	bucketizer domain.Bucketizer
	log        logrus.FieldLogger
}

type Option func(*AggregateUseCase)

func WithCache(c ports.SeriesCachePort) Option {
	return func(uc *AggregateUseCase) { uc.cache = c }
}

func WithMaxBuckets(n int) Option {
	return func(uc *AggregateUseCase) { uc.bucketizer.MaxBuckets = n }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(uc *AggregateUseCase) { uc.log = l }
}

func NewAggregateUseCase(reader ports.EventReaderPort, opts ...Option) *AggregateUseCase {
	uc := &AggregateUseCase{
		reader: reader,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute validates the query, reads the events of the range and merges them
// into calendar buckets.
func (uc *AggregateUseCase) Execute(ctx context.Context, in AggregateInput) (*domain.Series, error) {
	g, err := domain.ParseGranularity(in.GroupType)
	if err != nil {
		return nil, err
	}

	r := domain.TimeRange{From: in.From, To: in.To}
	boundaries, err := uc.bucketizer.Boundaries(r, g)
	if err != nil {
		return nil, err
	}

	key := cacheKey(r, g)
	if s, ok := uc.cached(ctx, key); ok {
		return s, nil
	}

	events, err := uc.reader.FetchRange(ctx, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataSourceFailure, err)
	}

	series, skipped := domain.Merge(boundaries, events)
	if skipped > 0 {
		uc.log.WithFields(logrus.Fields{
			"skipped": skipped,
			"fetched": len(events),
			"from":    r.From,
			"to":      r.To,
		}).Warn("events outside the requested range or out of order were not counted")
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, &series); err != nil {
			uc.log.WithError(err).Warn("failed to store series in cache")
		}
	}

	return &series, nil
}

func (uc *AggregateUseCase) cached(ctx context.Context, key string) (*domain.Series, bool) {
	if uc.cache == nil {
		return nil, false
	}
	s, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.WithError(err).Warn("series cache unavailable, reading from store")
		return nil, false
	}
	return s, ok && s != nil
}

func cacheKey(r domain.TimeRange, g domain.Granularity) string {
	return fmt.Sprintf("%s|%s|%s",
		r.From.Format(time.RFC3339Nano),
		r.To.Format(time.RFC3339Nano),
		g,
	)
}
