// Package memory implements an in-memory invoice repository.
package memory

import (
	"context"
	"sync"

	"billingflow/pkg/invoice"
)

// Repository provides an in-memory implementation of invoice.Repository.
type Repository struct {
	mu       sync.RWMutex
	invoices map[string]invoice.Invoice
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{invoices: make(map[string]invoice.Invoice)}
}

// Create stores the invoice.
func (r *Repository) Create(ctx context.Context, inv invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = inv
	return nil
}

// Get retrieves an invoice by ID.
func (r *Repository) Get(ctx context.Context, id string) (invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	return inv, nil
}

// List returns all invoices.
func (r *Repository) List(ctx context.Context) ([]invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]invoice.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, nil
}

// Len reports how many invoices are stored.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.invoices)
}
