// Package store wraps the MongoDB client used as the shipment document
// store. The connection is opened once per session and reused; there is no
// pooling logic here beyond what the driver provides and no retrying.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"shipquery/internal/model"
)

// Client is an open session against one database.
type Client struct {
	cli *mongo.Client
	db  *mongo.Database
	log *zap.SugaredLogger
}

// Connect opens and pings the store. Validation of the URI happens only by
// attempting the connection; an unreachable store yields ErrConnection.
func Connect(ctx context.Context, uri, database string, log *zap.SugaredLogger) (*Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(2 * time.Second)

	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConnection, err)
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", model.ErrConnection, err)
	}

	log.Infow("connected to store", "uri", uri, "database", database)
	return &Client{cli: cli, db: cli.Database(database), log: log}, nil
}

// Close releases the session.
func (c *Client) Close(ctx context.Context) error {
	return c.cli.Disconnect(ctx)
}

// Collection returns a handle on a named collection.
func (c *Client) Collection(name string) *Collection {
	return &Collection{coll: c.db.Collection(name), log: c.log}
}

// Collection is a thin wrapper exposing the primitives ingestion and the
// executor need.
type Collection struct {
	coll *mongo.Collection
	log  *zap.SugaredLogger
}

// Name returns the underlying collection name.
func (c *Collection) Name() string {
	return c.coll.Name()
}

// InsertMany bulk-writes documents. Partial failures are surfaced exactly as
// the driver reports them; no rollback.
func (c *Collection) InsertMany(ctx context.Context, docs []model.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	payload := make([]interface{}, len(docs))
	for i, d := range docs {
		payload[i] = d
	}
	res, err := c.coll.InsertMany(ctx, payload)
	if res != nil && err != nil {
		return len(res.InsertedIDs), fmt.Errorf("bulk insert partially failed: %w", err)
	}
	if err != nil {
		return 0, fmt.Errorf("bulk insert failed: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// CountDocuments counts documents matching filter.
func (c *Collection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}

// Aggregate runs a pipeline and decodes all rows, normalizing driver date
// types back to time.Time so callers never see primitive.DateTime.
func (c *Collection) Aggregate(ctx context.Context, pipeline []bson.M) ([]bson.M, error) {
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		normalizeDates(row)
	}
	return rows, nil
}

// Find returns up to limit documents matching filter.
func (c *Collection) Find(ctx context.Context, filter bson.M, limit int64) ([]model.Document, error) {
	cursor, err := c.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	docs := make([]model.Document, len(rows))
	for i, row := range rows {
		normalizeDates(row)
		delete(row, "_id")
		docs[i] = model.Document(row)
	}
	return docs, nil
}

// SampleDocuments fetches up to n documents for known-field discovery.
func (c *Collection) SampleDocuments(ctx context.Context, n int64) ([]model.Document, error) {
	return c.Find(ctx, bson.M{}, n)
}

// Column names worth indexing after an ingest, matched by substring.
var indexHints = []string{
	"ship", "date", "status", "cost", "charge", "ref", "tracking", "origin", "destination",
}

// EnsureIndexes creates single-field indexes on hint-named columns.
// Best-effort: an index failure is logged and ignored.
func (c *Collection) EnsureIndexes(ctx context.Context, fields []string) {
	for _, f := range fields {
		lower := strings.ToLower(f)
		hinted := false
		for _, h := range indexHints {
			if strings.Contains(lower, h) {
				hinted = true
				break
			}
		}
		if !hinted {
			continue
		}
		_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: f, Value: 1}},
		})
		if err != nil {
			c.log.Warnw("index create failed", "field", f, "err", err)
			continue
		}
		c.log.Debugw("index ensured", "field", f)
	}
}

func normalizeDates(row bson.M) {
	for k, v := range row {
		if dt, ok := v.(primitive.DateTime); ok {
			row[k] = dt.Time()
		}
	}
}
