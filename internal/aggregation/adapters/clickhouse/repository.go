package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"event-aggregation-bot/internal/aggregation/core/domain"
	"event-aggregation-bot/internal/aggregation/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

type DB interface {
	Query(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// The table is expected to hold dt DateTime64 and value Int64 columns.
const fetchRangeSQL = `
	SELECT dt, value
	FROM %s
	WHERE dt >= ? AND dt <= ?
	ORDER BY dt ASC
`

type EventRepository struct {
	db    DB
	query string
}

func NewEventRepository(db DB, table string) *EventRepository {
	return &EventRepository{
		db:    db,
		query: fmt.Sprintf(fetchRangeSQL, quoteIdentifier(table)),
	}
}

var _ ports.EventReaderPort = (*EventRepository)(nil)

func (r *EventRepository) FetchRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, r.query, from, to)
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

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
