package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by FindByKey when no document exists for the
// given key.
var ErrNotFound = errors.New("repository: document not found")

// Repository is a generic key-value document store. Keys are unique
// per collection; Upsert is insert-or-replace with last-write-wins.
type Repository[T any] interface {
	Upsert(ctx context.Context, collectionName string, key string, entity T) (T, error)
	FindByKey(ctx context.Context, collectionName string, key string) (T, error)
	Delete(ctx context.Context, collectionName string, key string) error
	FindAll(ctx context.Context, collectionName string) ([]T, error)
}
