package enums

// EventType names the domain events written to the outbox.
type EventType string

const (
	EventOrderCreated   EventType = "order.created"
	EventOrderCancelled EventType = "order.cancelled"
	EventPaymentSettled EventType = "payment.settled"
)

// AggregateType names the aggregate an outbox event belongs to.
type AggregateType string

const (
	AggregateCheckoutGroup AggregateType = "checkout_group"
	AggregateSupplierOrder AggregateType = "supplier_order"
)
