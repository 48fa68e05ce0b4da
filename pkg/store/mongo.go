package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/standardmorph/standardmorph/pkg/observability"
	"github.com/standardmorph/standardmorph/pkg/report"
	"github.com/standardmorph/standardmorph/pkg/retryutil"
)

// MongoStore persists reports in a MongoDB collection, one document per
// report with the report ID as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses the reports collection of the
// named database. The connection is verified before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("reports"),
	}, nil
}

func (s *MongoStore) Put(ctx context.Context, r report.Report) error {
	start := time.Now()
	if r.ID == "" {
		err := errors.New("report has no ID")
		observability.Store().OnPut(ctx, r.ID, time.Since(start), err)
		return err
	}
	err := retryutil.RetryWithBackoff(ctx, func() error {
		opts := options.Replace().SetUpsert(true)
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, opts)
		if err != nil {
			return retryutil.Retryable(fmt.Errorf("put report %s: %w", r.ID, err))
		}
		return nil
	})
	observability.Store().OnPut(ctx, r.ID, time.Since(start), err)
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (report.Report, error) {
	start := time.Now()
	var r report.Report
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnGet(ctx, id, time.Since(start), ErrNotFound)
		return report.Report{}, ErrNotFound
	}
	if err != nil {
		observability.Store().OnGet(ctx, id, time.Since(start), err)
		return report.Report{}, fmt.Errorf("get report %s: %w", id, err)
	}
	observability.Store().OnGet(ctx, id, time.Since(start), nil)
	return r, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]report.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer cur.Close(ctx)

	var out []report.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
