package ports

import (
	"context"
	"time"

	"event-aggregation-bot/internal/aggregation/core/domain"
)

type EventReaderPort interface {
	// FetchRange returns every event with from <= ts <= to,
	// sorted ascending by timestamp.
	FetchRange(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}
