package invoice_test

import (
	"context"
	"errors"
	"testing"

	"billingflow/pkg/invoice"
	invmem "billingflow/pkg/invoice/memory"
	"billingflow/pkg/item"
	itemmem "billingflow/pkg/item/memory"
)

func seedCatalog(t *testing.T) *itemmem.Repository {
	t.Helper()
	ctx := context.Background()
	items := itemmem.New()
	for _, it := range []item.Item{
		{ID: "a", Name: "Widget", Price: 10},
		{ID: "b", Name: "Gadget", Price: 5},
		{ID: "c", Name: "Sprocket", Price: 2.5},
	} {
		if err := items.Create(ctx, it); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return items
}

func TestCreateComputesTotal(t *testing.T) {
	ctx := context.Background()
	agg := invoice.NewAggregator(seedCatalog(t))

	inv, err := agg.Create(ctx, "Acme Corp", []invoice.LineRequest{
		{ItemID: "a", Quantity: 2},
		{ItemID: "b", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.TotalAmount != 25 {
		t.Fatalf("expected total 25, got %v", inv.TotalAmount)
	}
	if inv.ID == "" {
		t.Fatal("expected generated id")
	}
	if inv.Date.IsZero() {
		t.Fatal("expected date set")
	}
}

func TestCreatePreservesLineOrder(t *testing.T) {
	ctx := context.Background()
	agg := invoice.NewAggregator(seedCatalog(t))

	reqs := []invoice.LineRequest{
		{ItemID: "c", Quantity: 4},
		{ItemID: "a", Quantity: 1},
		{ItemID: "b", Quantity: 3},
	}
	inv, err := agg.Create(ctx, "Acme Corp", reqs)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(inv.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(inv.Lines))
	}
	for i, req := range reqs {
		if inv.Lines[i].ItemID != req.ItemID {
			t.Fatalf("line %d: expected %s, got %s", i, req.ItemID, inv.Lines[i].ItemID)
		}
		if inv.Lines[i].Quantity != req.Quantity {
			t.Fatalf("line %d: expected quantity %d, got %d", i, req.Quantity, inv.Lines[i].Quantity)
		}
	}
}

func TestCreateInvalidInput(t *testing.T) {
	ctx := context.Background()
	agg := invoice.NewAggregator(seedCatalog(t))

	if _, err := agg.Create(ctx, "", []invoice.LineRequest{{ItemID: "a", Quantity: 1}}); !errors.Is(err, invoice.ErrCustomerRequired) {
		t.Fatalf("expected ErrCustomerRequired, got %v", err)
	}
	if _, err := agg.Create(ctx, "Acme Corp", nil); !errors.Is(err, invoice.ErrItemsRequired) {
		t.Fatalf("expected ErrItemsRequired, got %v", err)
	}
	if _, err := agg.Create(ctx, "Acme Corp", []invoice.LineRequest{{ItemID: "a", Quantity: 0}}); !errors.Is(err, invoice.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCreateUnknownItemFailsWholeInvoice(t *testing.T) {
	ctx := context.Background()
	agg := invoice.NewAggregator(seedCatalog(t))
	store := invmem.New()

	_, err := agg.Create(ctx, "Acme Corp", []invoice.LineRequest{
		{ItemID: "a", Quantity: 1},
		{ItemID: "nope", Quantity: 2},
	})
	var nfe invoice.ItemNotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected ItemNotFoundError, got %v", err)
	}
	if nfe.ItemID != "nope" {
		t.Fatalf("expected missing id nope, got %s", nfe.ItemID)
	}
	if nfe.Error() != "item with ID nope not found" {
		t.Fatalf("unexpected message: %s", nfe.Error())
	}
	if store.Len() != 0 {
		t.Fatalf("expected no invoice persisted, got %d", store.Len())
	}
}

func TestRetrieveRoundTrip(t *testing.T) {
	ctx := context.Background()
	items := seedCatalog(t)
	agg := invoice.NewAggregator(items)
	store := invmem.New()

	inv, err := agg.Create(ctx, "Acme Corp", []invoice.LineRequest{
		{ItemID: "a", Quantity: 2},
		{ItemID: "b", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, inv); err != nil {
		t.Fatalf("persist: %v", err)
	}

	v, err := invoice.Fetch(ctx, store, items, inv.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if v.CustomerName != "Acme Corp" || v.TotalAmount != 25 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if len(v.Lines) != 2 || v.Lines[0].Item == nil || v.Lines[0].Item.Name != "Widget" {
		t.Fatalf("expected resolved lines, got %+v", v.Lines)
	}

	if _, err := invoice.Fetch(ctx, store, items, "missing"); !errors.Is(err, invoice.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoredPricesSurviveCatalogChanges(t *testing.T) {
	ctx := context.Background()
	items := seedCatalog(t)
	agg := invoice.NewAggregator(items)
	store := invmem.New()

	inv, err := agg.Create(ctx, "Acme Corp", []invoice.LineRequest{
		{ItemID: "a", Quantity: 2},
		{ItemID: "b", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, inv); err != nil {
		t.Fatalf("persist: %v", err)
	}

	// Reprice one item and delete the other.
	if err := items.Update(ctx, item.Item{ID: "a", Name: "Widget", Price: 99}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := items.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	v, err := invoice.Fetch(ctx, store, items, inv.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if v.TotalAmount != 25 {
		t.Fatalf("total drifted: %v", v.TotalAmount)
	}
	if v.Lines[0].Price != 10 || v.Lines[1].Price != 5 {
		t.Fatalf("line prices drifted: %+v", v.Lines)
	}
	if v.Lines[0].Item == nil || v.Lines[0].Item.Price != 99 {
		t.Fatalf("expected current catalog item on line 0, got %+v", v.Lines[0].Item)
	}
	if v.Lines[1].Item != nil {
		t.Fatalf("expected nil item for deleted reference, got %+v", v.Lines[1].Item)
	}
}
