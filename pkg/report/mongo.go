package report

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryStore keeps past run reports in MongoDB, letting CI compare a run
// against earlier ones and track when a document started failing.
type HistoryStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

const (
	historyDatabase   = "armschema"
	historyCollection = "runs"

	connectTimeout = 10 * time.Second
)

// NewHistoryStore connects to the MongoDB instance at uri.
func NewHistoryStore(ctx context.Context, uri string) (*HistoryStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &HistoryStore{
		client: client,
		coll:   client.Database(historyDatabase).Collection(historyCollection),
	}, nil
}

// Save stores a finished run report.
func (s *HistoryStore) Save(ctx context.Context, r *Report) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert report %s: %w", r.ID, err)
	}
	return nil
}

// Latest returns the most recently started run for the given corpus root,
// or nil if none has been stored.
func (s *HistoryStore) Latest(ctx context.Context, corpusRoot string) (*Report, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})
	var r Report
	err := s.coll.FindOne(ctx, bson.M{"corpus_root": corpusRoot}, opts).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest report: %w", err)
	}
	return &r, nil
}

// Get returns a run by ID, or nil if it does not exist.
func (s *HistoryStore) Get(ctx context.Context, id string) (*Report, error) {
	var r Report
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report %s: %w", id, err)
	}
	return &r, nil
}

// Close disconnects from MongoDB.
func (s *HistoryStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
