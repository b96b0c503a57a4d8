package ports

import (
	"context"

	"event-aggregation-bot/internal/aggregation/core/domain"
)

type SeriesCachePort interface {
	// Get:
	//   s != nil, ok = true,  err = nil  -> hit
	//   s == nil, ok = false, err = nil  -> miss
	//   err != nil                       -> cache unavailable
	Get(ctx context.Context, key string) (s *domain.Series, ok bool, err error)
	Set(ctx context.Context, key string, s *domain.Series) error
}
