package repository

import (
	"context"
	"sync"

	Irepository "expert-finder/internal/domain/interfaces/repository"
)

// MemoryRepository is a map-backed Repository used for local runs and
// tests. Collections are created on first use.
type MemoryRepository[T any] struct {
	mu          sync.RWMutex
	collections map[string]map[string]T
}

func NewMemoryRepository[T any]() *MemoryRepository[T] {
	return &MemoryRepository[T]{collections: make(map[string]map[string]T)}
}

func (r *MemoryRepository[T]) Upsert(ctx context.Context, collectionName string, key string, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, exists := r.collections[collectionName]
	if !exists {
		collection = make(map[string]T)
		r.collections[collectionName] = collection
	}
	collection[key] = entity
	return entity, nil
}

func (r *MemoryRepository[T]) FindByKey(ctx context.Context, collectionName string, key string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero T
	collection, exists := r.collections[collectionName]
	if !exists {
		return zero, Irepository.ErrNotFound
	}
	entity, exists := collection[key]
	if !exists {
		return zero, Irepository.ErrNotFound
	}
	return entity, nil
}

func (r *MemoryRepository[T]) Delete(ctx context.Context, collectionName string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if collection, exists := r.collections[collectionName]; exists {
		delete(collection, key)
	}
	return nil
}

func (r *MemoryRepository[T]) FindAll(ctx context.Context, collectionName string) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collection, exists := r.collections[collectionName]
	if !exists {
		return []T{}, nil
	}
	entities := make([]T, 0, len(collection))
	for _, entity := range collection {
		entities = append(entities, entity)
	}
	return entities, nil
}
