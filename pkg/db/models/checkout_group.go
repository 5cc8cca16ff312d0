package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// CheckoutGroup links one checkout submission to the supplier orders it
// produced. A group may hold fewer orders than the cart had suppliers when
// some per-supplier submissions failed.
type CheckoutGroup struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID     uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null"`
	CartID      *uuid.UUID        `gorm:"column:cart_id;type:uuid"`
	PaymentType enums.PaymentType `gorm:"column:payment_type;not null"`
	Orders      []SupplierOrder   `gorm:"foreignKey:CheckoutGroupID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}
