package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem snapshots a product line inside a cart. Prices are paise at the
// moment the item was added; SupplierID may be zero for legacy rows and is
// coalesced at aggregation time, never here.
type CartItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID  `gorm:"column:cart_id;type:uuid;not null"`
	ProductID      int64      `gorm:"column:product_id;not null"`
	SupplierID     int64      `gorm:"column:supplier_id"`
	SupplierName   string     `gorm:"column:supplier_name"`
	Name           string     `gorm:"column:name;not null"`
	ImageURL       *string    `gorm:"column:image_url"`
	UnitPricePaise int64      `gorm:"column:unit_price_paise;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	MOQ            int        `gorm:"column:moq;not null;default:1"`
	Position       int        `gorm:"column:position;not null;default:0"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
