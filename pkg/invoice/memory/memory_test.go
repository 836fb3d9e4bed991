package memory

import (
	"context"
	"testing"

	"billingflow/pkg/invoice"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	inv := invoice.Invoice{
		ID:           "1",
		CustomerName: "Acme Corp",
		Lines:        []invoice.Line{{ItemID: "a", Quantity: 2, Price: 10}},
		TotalAmount:  20,
	}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalAmount != 20 || len(got.Lines) != 1 {
		t.Fatalf("unexpected invoice: %+v", got)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if _, err := repo.Get(ctx, "2"); err != invoice.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
