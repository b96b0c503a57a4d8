package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"event-aggregation-bot/internal/aggregation/core/domain"
	"event-aggregation-bot/internal/aggregation/core/ports"
)

// Collection is the subset of *mongo.Collection used by the repository.
type Collection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

type eventDocument struct {
	DT    time.Time `bson:"dt"`
	Value int64     `bson:"value"`
}

type EventRepository struct {
	coll Collection
}

func NewEventRepository(coll Collection) *EventRepository {
	return &EventRepository{coll: coll}
}

var _ ports.EventReaderPort = (*EventRepository)(nil)

func (r *EventRepository) FetchRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	filter := bson.M{
		"dt": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "dt", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]domain.Event, len(docs))
	for i, d := range docs {
		events[i] = domain.Event{Timestamp: d.DT, Value: d.Value}
	}
	return events, nil
}

// Connect opens a client and checks the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

type disconnecter interface {
	Disconnect(ctx context.Context) error
}

// CloseFunc returns a func that disconnects client within timeout and logs
// a failure to log.
func CloseFunc(client disconnecter, timeout time.Duration, log logrus.FieldLogger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.WithError(err).Warn("mongo disconnect error")
		}
	}
}
