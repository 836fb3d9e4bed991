package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Line is one priced item reference within an invoice. Price is the unit
// price captured when the invoice was created; it never tracks later catalog
// changes. ItemID is a weak reference and may dangle once the item is
// deleted.
type Line struct {
	ItemID   string  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Invoice is an immutable, dated record of a sale. TotalAmount equals the
// sum of line price×quantity at creation time and is never recomputed.
type Invoice struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Lines        []Line    `json:"items"`
	TotalAmount  float64   `json:"totalAmount"`
	Date         time.Time `json:"date"`
}

// LineRequest is the caller's input shape for one requested line.
type LineRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Repository defines behavior for persisting invoices. Invoices are
// append-only; there are no update or delete operations.
type Repository interface {
	Create(ctx context.Context, inv Invoice) error
	Get(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
}

// ErrNotFound indicates the requested invoice does not exist.
var ErrNotFound = errors.New("invoice not found")

// Input validation errors, reported before any item resolution is attempted.
var (
	ErrCustomerRequired = errors.New("customer name is required")
	ErrItemsRequired    = errors.New("items must be a non-empty array")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
)

// ItemNotFoundError reports a requested line referencing a catalog item that
// does not exist. The whole creation fails; nothing is persisted.
type ItemNotFoundError struct {
	ItemID string
}

func (e ItemNotFoundError) Error() string {
	return fmt.Sprintf("item with ID %s not found", e.ItemID)
}
