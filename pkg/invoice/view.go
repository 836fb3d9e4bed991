package invoice

import (
	"context"
	"errors"
	"time"

	"billingflow/pkg/item"
)

// LineView is a line joined with its current catalog item for display. Item
// is nil when the referenced item has since been deleted; the frozen
// Quantity and Price are still shown.
type LineView struct {
	Item     *item.Item `json:"item"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
}

// Amount is the line subtotal at the captured price.
func (l LineView) Amount() float64 {
	return l.Price * float64(l.Quantity)
}

// View is an invoice prepared for display.
type View struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customerName"`
	Lines        []LineView `json:"items"`
	TotalAmount  float64    `json:"totalAmount"`
	Date         time.Time  `json:"date"`
}

// Fetch loads an invoice and resolves each line's item reference for
// display. Dangling references degrade to a nil Item; stored prices and the
// total are returned untouched.
func Fetch(ctx context.Context, invoices Repository, items item.Repository, id string) (View, error) {
	inv, err := invoices.Get(ctx, id)
	if err != nil {
		return View{}, err
	}

	lines := make([]LineView, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lv := LineView{Quantity: l.Quantity, Price: l.Price}
		it, err := items.Get(ctx, l.ItemID)
		switch {
		case err == nil:
			lv.Item = &it
		case errors.Is(err, item.ErrNotFound):
			// deleted item; keep the frozen line
		default:
			return View{}, err
		}
		lines = append(lines, lv)
	}

	return View{
		ID:           inv.ID,
		CustomerName: inv.CustomerName,
		Lines:        lines,
		TotalAmount:  inv.TotalAmount,
		Date:         inv.Date,
	}, nil
}
