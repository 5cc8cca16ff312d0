package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/pkg/enums"
	"github.com/tradekart/tradekart-backend/pkg/types"
)

// SupplierOrder is the per-supplier order produced from a checkout group.
// All amounts are paise.
type SupplierOrder struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CheckoutGroupID uuid.UUID              `gorm:"column:checkout_group_id;type:uuid;not null"`
	OrderNumber     string                 `gorm:"column:order_number;uniqueIndex;not null"`
	BuyerID         uuid.UUID              `gorm:"column:buyer_id;type:uuid;not null"`
	SupplierID      int64                  `gorm:"column:supplier_id;not null"`
	SupplierName    string                 `gorm:"column:supplier_name"`
	Currency        enums.Currency         `gorm:"column:currency;not null;default:'INR'"`
	SubtotalPaise   int64                  `gorm:"column:subtotal_paise;not null"`
	TaxPaise        int64                  `gorm:"column:tax_paise;not null;default:0"`
	ShippingPaise   int64                  `gorm:"column:shipping_paise;not null;default:0"`
	CommissionPaise int64                  `gorm:"column:commission_paise;not null;default:0"`
	TotalPaise      int64                  `gorm:"column:total_paise;not null"`
	BalanceDuePaise int64                  `gorm:"column:balance_due_paise;not null;default:0"`
	PaymentType     enums.PaymentType      `gorm:"column:payment_type;not null"`
	Status          enums.OrderStatus      `gorm:"column:status;not null;default:'awaiting_payment'"`
	PONumber        *string                `gorm:"column:po_number"`
	CreditTermsDays *int                   `gorm:"column:credit_terms_days"`
	PaymentDueAt    *time.Time             `gorm:"column:payment_due_at"`
	ShippingAddress *types.Address         `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Items           []OrderLineItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaymentIntent   *PaymentIntent         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CancelledAt     *time.Time             `gorm:"column:cancelled_at"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
