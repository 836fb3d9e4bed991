package item

import (
	"context"
	"errors"
)

// Item is a catalog entry. Invoices reference items by id only; the unit
// price here is the current price, not what any past invoice was billed at.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// Repository defines behavior for persisting catalog items.
type Repository interface {
	Create(ctx context.Context, it Item) error
	Get(ctx context.Context, id string) (Item, error)
	List(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, it Item) error
	Delete(ctx context.Context, id string) error
}

// ErrNotFound indicates the requested item does not exist.
var ErrNotFound = errors.New("item not found")
