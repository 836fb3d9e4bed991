package memory

import (
	"context"
	"testing"

	"billingflow/pkg/item"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	it := item.Item{ID: "1", Name: "Widget", Price: 9.99}
	if err := repo.Create(ctx, it); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Widget" {
		t.Fatalf("expected Widget, got %s", got.Name)
	}
	it.Price = 12.50
	if err := repo.Update(ctx, it); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if list[0].Price != 12.50 {
		t.Fatalf("expected updated price, got %v", list[0].Price)
	}
	if err := repo.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "1"); err != item.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
