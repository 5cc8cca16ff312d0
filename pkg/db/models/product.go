package models

import "time"

// Product is the marketplace listing referenced by cart items. Only the
// fields the checkout workflow reads are modeled here.
type Product struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	SupplierID     int64     `gorm:"column:supplier_id;not null"`
	Name           string    `gorm:"column:name;not null"`
	ImageURL       *string   `gorm:"column:image_url"`
	UnitPricePaise int64     `gorm:"column:unit_price_paise;not null"`
	MOQ            int       `gorm:"column:moq;not null;default:1"`
	Active         bool      `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
