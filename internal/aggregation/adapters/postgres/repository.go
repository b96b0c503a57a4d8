package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"event-aggregation-bot/internal/aggregation/core/domain"
	"event-aggregation-bot/internal/aggregation/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type EventRepository struct {
	db    DB
	query string
}

// NewEventRepository reads events from table, which must have a timestamp
// column "dt" and an integer column "value".
func NewEventRepository(db DB, table string) *EventRepository {
	return &EventRepository{
		db:    db,
		query: fmt.Sprintf(fetchRangeSQL, pq.QuoteIdentifier(table)),
	}
}

var _ ports.EventReaderPort = (*EventRepository)(nil)

const fetchRangeSQL = `
SELECT
    dt,
    value
FROM %s
WHERE dt BETWEEN $1 AND $2
ORDER BY dt ASC`

func (r *EventRepository) FetchRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, r.query, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.Timestamp, &e.Value); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
