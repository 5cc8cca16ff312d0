package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem freezes a cart line at order creation.
type OrderLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID      int64     `gorm:"column:product_id;not null"`
	Name           string    `gorm:"column:name;not null"`
	UnitPricePaise int64     `gorm:"column:unit_price_paise;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	TotalPaise     int64     `gorm:"column:total_paise;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
