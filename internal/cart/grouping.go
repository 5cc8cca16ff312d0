package cart

import "github.com/tradekart/tradekart-backend/pkg/db/models"

// DefaultSupplierID is assigned when a cart item carries no supplier id, so
// the item is grouped instead of dropped.
const DefaultSupplierID int64 = 1

// SupplierGroup is the derived per-supplier view of a cart. It is recomputed
// from the item list on every call and never persisted.
type SupplierGroup struct {
	SupplierID    int64
	SupplierName  string
	Items         []models.CartItem
	SubtotalPaise int64
}

// GroupBySupplier projects cart items into supplier groups. Groups appear in
// first-seen order; items keep their relative order within each group. An
// empty cart yields an empty slice.
func GroupBySupplier(items []models.CartItem) []SupplierGroup {
	groups := make([]SupplierGroup, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, item := range items {
		supplierID := item.SupplierID
		if supplierID == 0 {
			supplierID = DefaultSupplierID
		}

		i, seen := index[supplierID]
		if !seen {
			i = len(groups)
			index[supplierID] = i
			groups = append(groups, SupplierGroup{
				SupplierID:   supplierID,
				SupplierName: item.SupplierName,
			})
		}

		groups[i].Items = append(groups[i].Items, item)
		groups[i].SubtotalPaise += lineSubtotal(item)
		if groups[i].SupplierName == "" && item.SupplierName != "" {
			groups[i].SupplierName = item.SupplierName
		}
	}

	return groups
}

// Subtotal sums line subtotals across the whole cart.
func Subtotal(items []models.CartItem) int64 {
	var total int64
	for _, item := range items {
		total += lineSubtotal(item)
	}
	return total
}

func lineSubtotal(item models.CartItem) int64 {
	return item.UnitPricePaise * int64(item.Quantity)
}
