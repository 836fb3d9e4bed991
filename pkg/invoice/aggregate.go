package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"billingflow/pkg/item"
)

// Aggregator builds invoices from requested lines. It reads the item catalog
// but persists nothing; the caller hands the result to a Repository.
type Aggregator struct {
	items item.Repository
}

// NewAggregator creates an Aggregator over the given catalog.
func NewAggregator(items item.Repository) *Aggregator {
	return &Aggregator{items: items}
}

// Create resolves every requested line against the catalog, captures each
// item's current unit price, and returns a fully priced invoice. All lines
// are resolved or none are: any unknown item id fails the whole call with an
// ItemNotFoundError. Lines are resolved concurrently but keep the caller's
// order in the result.
func (a *Aggregator) Create(ctx context.Context, customerName string, requests []LineRequest) (Invoice, error) {
	if strings.TrimSpace(customerName) == "" {
		return Invoice{}, ErrCustomerRequired
	}
	if len(requests) == 0 {
		return Invoice{}, ErrItemsRequired
	}
	for _, req := range requests {
		if req.Quantity <= 0 {
			return Invoice{}, ErrInvalidQuantity
		}
	}

	lines := make([]Line, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		g.Go(func() error {
			it, err := a.items.Get(gctx, req.ItemID)
			if errors.Is(err, item.ErrNotFound) {
				return ItemNotFoundError{ItemID: req.ItemID}
			}
			if err != nil {
				return err
			}
			lines[i] = Line{ItemID: it.ID, Quantity: req.Quantity, Price: it.Price}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Invoice{}, err
	}

	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}

	return Invoice{
		ID:           uuid.NewString(),
		CustomerName: customerName,
		Lines:        lines,
		TotalAmount:  total,
		Date:         time.Now().UTC(),
	}, nil
}
