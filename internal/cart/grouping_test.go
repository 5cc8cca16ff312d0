package cart

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/pkg/db/models"
)

func item(supplierID int64, pricePaise int64, qty int) models.CartItem {
	return models.CartItem{
		ID:             uuid.New(),
		ProductID:      supplierID*100 + int64(qty),
		SupplierID:     supplierID,
		UnitPricePaise: pricePaise,
		Quantity:       qty,
	}
}

func TestGroupBySupplierPreservesOrder(t *testing.T) {
	t.Parallel()
	items := []models.CartItem{
		item(7, 10000, 1),
		item(3, 5000, 2),
		item(7, 2000, 3),
		item(9, 1000, 1),
	}

	groups := GroupBySupplier(items)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].SupplierID != 7 || groups[1].SupplierID != 3 || groups[2].SupplierID != 9 {
		t.Fatalf("groups not in first-seen order: %v %v %v", groups[0].SupplierID, groups[1].SupplierID, groups[2].SupplierID)
	}

	// Concatenating the groups in order must reproduce the cart.
	var flattened []models.CartItem
	for _, g := range groups {
		flattened = append(flattened, g.Items...)
	}
	if len(flattened) != len(items) {
		t.Fatalf("expected %d items after flatten, got %d", len(items), len(flattened))
	}
	want := []int64{7, 7, 3, 9}
	got := []int64{
		flattened[0].SupplierID, flattened[1].SupplierID,
		flattened[2].SupplierID, flattened[3].SupplierID,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flattened order mismatch at %d: got %v want %v", i, got, want)
		}
	}
	if groups[0].Items[0].UnitPricePaise != 10000 || groups[0].Items[1].UnitPricePaise != 2000 {
		t.Fatal("in-group item order not preserved")
	}
}

func TestGroupBySupplierSubtotals(t *testing.T) {
	t.Parallel()
	groups := GroupBySupplier([]models.CartItem{
		item(2, 10000, 3),
		item(2, 500, 2),
	})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].SubtotalPaise != 31000 {
		t.Fatalf("expected subtotal 31000, got %d", groups[0].SubtotalPaise)
	}
}

func TestGroupBySupplierCoalescesMissingSupplier(t *testing.T) {
	t.Parallel()
	missing := item(0, 1000, 1)
	groups := GroupBySupplier([]models.CartItem{missing})
	if len(groups) != 1 {
		t.Fatalf("expected sentinel group, got %d groups", len(groups))
	}
	if groups[0].SupplierID != DefaultSupplierID {
		t.Fatalf("expected sentinel supplier %d, got %d", DefaultSupplierID, groups[0].SupplierID)
	}
	if len(groups[0].Items) != 1 {
		t.Fatal("item with missing supplier must not be dropped")
	}
}

func TestGroupBySupplierEmptyCart(t *testing.T) {
	t.Parallel()
	if groups := GroupBySupplier(nil); len(groups) != 0 {
		t.Fatalf("expected no groups for empty cart, got %d", len(groups))
	}
}

func TestSubtotal(t *testing.T) {
	t.Parallel()
	items := []models.CartItem{item(1, 25000, 2), item(2, 10000, 5)}
	if got := Subtotal(items); got != 100000 {
		t.Fatalf("expected 100000, got %d", got)
	}
}
