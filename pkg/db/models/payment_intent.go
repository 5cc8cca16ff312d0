package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// PaymentIntent tracks payment progress for a supplier order. Gateway ids
// are populated only on the hosted-gateway paths; ProofReference only on the
// offline rails.
type PaymentIntent struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Method           enums.PaymentType   `gorm:"column:method;not null"`
	Status           enums.PaymentStatus `gorm:"column:status;not null;default:'unpaid'"`
	AmountPaise      int64               `gorm:"column:amount_paise;not null"`
	GatewayOrderID   *string             `gorm:"column:gateway_order_id"`
	GatewayPaymentID *string             `gorm:"column:gateway_payment_id"`
	FailureReason    *string             `gorm:"column:failure_reason"`
	ProofReference   *string             `gorm:"column:proof_reference"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
