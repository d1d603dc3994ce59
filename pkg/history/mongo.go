package history

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// MongoStore persists records in a MongoDB collection, for setups where
// the history is shared between the CLI and the dashboard service.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the Mongo-backed store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping before returning.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo history store needs a URI")
	}
	db := cfg.Database
	if db == "" {
		db = "streamlytics"
	}
	coll := cfg.Collection
	if coll == "" {
		coll = "history"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeIO, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(coll),
	}, nil
}

// Append inserts the records.
func (s *MongoStore) Append(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = r
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "insert history records")
	}
	return nil
}

// List returns all records sorted by PlayedAt ascending, deduplicated.
func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "played_at", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "query history records")
	}
	defer cur.Close(ctx)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "decode history records")
	}

	records = Dedup(records)
	sort.Slice(records, func(i, j int) bool {
		return records[i].PlayedAt.Before(records[j].PlayedAt)
	})
	return records, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
