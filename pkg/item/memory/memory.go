// Package memory implements an in-memory item repository.
package memory

import (
	"context"
	"sync"

	"billingflow/pkg/item"
)

// Repository provides an in-memory implementation of item.Repository.
type Repository struct {
	mu    sync.RWMutex
	items map[string]item.Item
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{items: make(map[string]item.Item)}
}

// Create stores the item.
func (r *Repository) Create(ctx context.Context, it item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = it
	return nil
}

// Get retrieves an item by ID.
func (r *Repository) Get(ctx context.Context, id string) (item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return item.Item{}, item.ErrNotFound
	}
	return it, nil
}

// List returns all items.
func (r *Repository) List(ctx context.Context) ([]item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]item.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	return out, nil
}

// Update replaces an existing item.
func (r *Repository) Update(ctx context.Context, it item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.ID]; !ok {
		return item.ErrNotFound
	}
	r.items[it.ID] = it
	return nil
}

// Delete removes an item by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return item.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
