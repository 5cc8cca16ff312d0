package enums

import "fmt"

// OrderStatus tracks a supplier order from creation to terminal state.
type OrderStatus string

const (
	// OrderStatusAwaitingPayment covers offline rails and hosted gateways
	// before settlement confirmation arrives.
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	// OrderStatusPlaced means the order may ship; credit-terms orders enter
	// this state immediately, paid orders on settlement.
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusAwaitingPayment,
	OrderStatusPlaced,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsCancellable reports whether a buyer may still cancel the order.
func (o OrderStatus) IsCancellable() bool {
	return o == OrderStatusAwaitingPayment || o == OrderStatusPlaced
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
