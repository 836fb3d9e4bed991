package pdf

import (
	"bytes"
	"testing"
	"time"

	"billingflow/pkg/invoice"
	"billingflow/pkg/item"
)

func TestRender(t *testing.T) {
	it := item.Item{ID: "a", Name: "Widget", Price: 10}
	v := invoice.View{
		ID:           "inv-1",
		CustomerName: "Acme Corp",
		Lines: []invoice.LineView{
			{Item: &it, Quantity: 2, Price: 10},
			{Item: nil, Quantity: 1, Price: 5},
		},
		TotalAmount: 25,
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	out, err := Render(v)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF output, got %q", out[:min(8, len(out))])
	}
}
