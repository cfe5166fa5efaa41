package mongodb

import (
	"context"
	"iter"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
)

// Collection is a handle on one named collection whose documents decode into T.
type Collection[T any] struct {
	coll *mongo.Collection
}

func NewCollection[T any](c *Client, name string) *Collection[T] {
	return &Collection[T]{coll: c.db.Collection(name)}
}

// WrapCollection types an existing driver collection.
func WrapCollection[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll}
}

func (c *Collection[T]) Name() string {
	return c.coll.Name()
}

// FindAll lazily yields every document sorted ascending by sortKey. A query
// or decode error is yielded once and ends the sequence.
func (c *Collection[T]) FindAll(ctx context.Context, sortKey string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		findOpts := options.Find()
		if sortKey != "" {
			findOpts.SetSort(bson.D{{Key: sortKey, Value: 1}})
		}
		cursor, err := c.coll.Find(ctx, bson.D{}, findOpts)
		if err != nil {
			yield(zero, apperr.Query("find "+c.coll.Name(), err))
			return
		}
		defer func() { _ = cursor.Close(ctx) }()

		for cursor.Next(ctx) {
			var doc T
			if err := cursor.Decode(&doc); err != nil {
				yield(zero, apperr.Query("decode "+c.coll.Name(), err))
				return
			}
			if !yield(doc, nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(zero, apperr.Query("find "+c.coll.Name(), err))
		}
	}
}

// InsertMany stores docs and returns how many were inserted.
func (c *Collection[T]) InsertMany(ctx context.Context, docs []T) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := c.coll.InsertMany(ctx, lo.ToAnySlice(docs))
	if err != nil {
		return 0, apperr.Query("insert into "+c.coll.Name(), err)
	}
	return len(res.InsertedIDs), nil
}

func (c *Collection[T]) Count(ctx context.Context) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, apperr.Query("count "+c.coll.Name(), err)
	}
	return n, nil
}

// Aggregate runs pipeline on c and decodes every output document into R.
func Aggregate[R any, T any](ctx context.Context, c *Collection[T], pipeline mongo.Pipeline) ([]R, error) {
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Query("aggregate "+c.coll.Name(), err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	results := make([]R, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperr.Query("aggregate "+c.coll.Name(), errors.Wrapf(err, "failed to decode results"))
	}
	return results, nil
}
