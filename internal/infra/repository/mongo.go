package repository

import (
	"context"
	"errors"
	"sync"

	Irepository "expert-finder/internal/domain/interfaces/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	mongo *mongo.Database

	initOnce sync.Once
	initErr  error
}

func NewMongoRepository[T any](mongo *mongo.Database) *MongoRepository[T] {
	return &MongoRepository[T]{mongo: mongo}
}

// ensureInitialized performs the one-time store setup. All callers on
// a process share the same initialization result.
func (r *MongoRepository[T]) ensureInitialized(ctx context.Context) error {
	r.initOnce.Do(func() {
		r.initErr = r.mongo.Client().Ping(ctx, nil)
	})
	return r.initErr
}

func (r *MongoRepository[T]) Upsert(ctx context.Context, collectionName string, key string, entity T) (T, error) {
	if err := r.ensureInitialized(ctx); err != nil {
		return entity, err
	}
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{"_id": key}
	update := bson.M{"$set": entity}

	_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return entity, err
}

func (r *MongoRepository[T]) FindByKey(ctx context.Context, collectionName string, key string) (T, error) {
	var entity T
	if err := r.ensureInitialized(ctx); err != nil {
		return entity, err
	}
	collection := r.mongo.Collection(collectionName)
	err := collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity, Irepository.ErrNotFound
	}
	return entity, err
}

func (r *MongoRepository[T]) Delete(ctx context.Context, collectionName string, key string) error {
	if err := r.ensureInitialized(ctx); err != nil {
		return err
	}
	collection := r.mongo.Collection(collectionName)
	_, err := collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (r *MongoRepository[T]) FindAll(ctx context.Context, collectionName string) ([]T, error) {
	if err := r.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	collection := r.mongo.Collection(collectionName)
	cursor, err := collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entities []T
	for cursor.Next(ctx) {
		var entity T
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, cursor.Err()
}
