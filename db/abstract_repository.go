package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Model is any document addressed by its "_id".
type Model interface {
	Id() string
}

// AbstractRepository runs every collection call on its own goroutine and
// hands back (result, error) channels. Channels are buffered so a caller
// that stops waiting never strands the goroutine.
type AbstractRepository[T any] struct {
	Collection *mongo.Collection
}

func (r *AbstractRepository[T]) Save(ctx context.Context, model Model) chan error {
	errChan := make(chan error, 1)

	go func() {
		opts := options.Replace().SetUpsert(true)
		_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": model.Id()}, model, opts)
		errChan <- err
	}()

	return errChan
}

func (r *AbstractRepository[T]) FindOneById(ctx context.Context, id string) (chan *T, chan error) {
	resultChan := make(chan *T, 1)
	errChan := make(chan error, 1)

	go func() {
		result := new(T)
		if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(result); err != nil {
			errChan <- err
			return
		}
		resultChan <- result
	}()

	return resultChan, errChan
}

func (r *AbstractRepository[T]) IsExistsById(ctx context.Context, id string) (chan bool, chan error) {
	resultChan := make(chan bool, 1)
	errChan := make(chan error, 1)

	go func() {
		opts := options.FindOne().SetProjection(bson.M{"_id": 1})
		err := r.Collection.FindOne(ctx, bson.M{"_id": id}, opts).Err()
		switch {
		case err == nil:
			resultChan <- true
		case err == mongo.ErrNoDocuments:
			resultChan <- false
		default:
			errChan <- err
		}
	}()

	return resultChan, errChan
}

func (r *AbstractRepository[T]) Find(ctx context.Context, filters bson.M, sort bson.D, limit, skip int64) (chan []T, chan error) {
	resultChan := make(chan []T, 1)
	errChan := make(chan error, 1)

	go func() {
		opts := options.Find()
		if len(sort) > 0 {
			opts.SetSort(sort)
		}
		if limit > 0 {
			opts.SetLimit(limit)
		}
		if skip > 0 {
			opts.SetSkip(skip)
		}

		cursor, err := r.Collection.Find(ctx, filters, opts)
		if err != nil {
			errChan <- err
			return
		}

		results := []T{}
		if err := cursor.All(ctx, &results); err != nil {
			errChan <- err
			return
		}
		resultChan <- results
	}()

	return resultChan, errChan
}

func (r *AbstractRepository[T]) UpdateOne(ctx context.Context, filters bson.M, update bson.M, opts ...*options.UpdateOptions) (chan *mongo.UpdateResult, chan error) {
	resultChan := make(chan *mongo.UpdateResult, 1)
	errChan := make(chan error, 1)

	go func() {
		res, err := r.Collection.UpdateOne(ctx, filters, update, opts...)
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- res
	}()

	return resultChan, errChan
}

func (r *AbstractRepository[T]) DeleteById(ctx context.Context, id string) (chan int64, chan error) {
	resultChan := make(chan int64, 1)
	errChan := make(chan error, 1)

	go func() {
		res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- res.DeletedCount
	}()

	return resultChan, errChan
}
